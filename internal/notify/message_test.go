package notify

import (
	"strings"
	"testing"

	"github.com/ternarybob/callwatch/internal/models"
)

func TestDirectionLabel(t *testing.T) {
	tests := []struct {
		direction models.Direction
		want      string
	}{
		{models.DirectionIncoming, "着信"},
		{models.DirectionOutgoing, "発信"},
		{models.Direction("other"), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := DirectionLabel(tt.direction); got != tt.want {
			t.Errorf("DirectionLabel(%s) = %s, want %s", tt.direction, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status    models.CallStatus
		direction models.Direction
		want      string
	}{
		{models.StatusConnected, models.DirectionIncoming, "通話中"},
		{models.StatusDisconnected, models.DirectionIncoming, "切断"},
		{models.StatusConnecting, models.DirectionIncoming, "着信中"},
		{models.StatusConnecting, models.DirectionOutgoing, "発信中"},
		{models.CallStatus("other"), models.DirectionIncoming, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := StatusLabel(tt.status, tt.direction); got != tt.want {
			t.Errorf("StatusLabel(%s, %s) = %s, want %s", tt.status, tt.direction, got, tt.want)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	detail := models.CallDetail{
		Direction:    models.DirectionIncoming,
		SelfNumber:   "10",
		CallerNumber: "0312345678",
		Status:       models.StatusConnecting,
	}

	t.Run("Short form with a resolved name", func(t *testing.T) {
		identity := &models.Identity{
			Kind:   models.IdentityName,
			Name:   "〇〇株式会社",
			Source: "電話帳",
		}

		got := BuildMessage(detail, identity, "自宅")
		want := "☎ **【着信中】着信 `〇〇株式会社` (`0312345678`)**\n" +
			"\n" +
			"**ソース**: 電話帳\n" +
			"**対象名**: 自宅"
		if got != want {
			t.Errorf("Unexpected message:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("Short form with no identity reads unknown", func(t *testing.T) {
		got := BuildMessage(detail, nil, "自宅")
		if !strings.Contains(got, "`不明` (`0312345678`)") {
			t.Errorf("Expected unknown caller label in:\n%s", got)
		}
		if !strings.Contains(got, "**ソース**: 不明") {
			t.Errorf("Expected unknown source in:\n%s", got)
		}
	})

	t.Run("Rich form lists titled result links", func(t *testing.T) {
		identity := &models.Identity{
			Kind:   models.IdentitySearch,
			Count:  "1,230",
			Source: "Google検索",
			Items: []models.SearchItem{
				{Title: "A", URL: "https://example.com/a"},
				{Title: "B", URL: "https://example.com/b"},
			},
		}

		got := BuildMessage(detail, identity, "自宅")
		want := "☎ **【着信中】着信 `不明` (`0312345678`)**\n" +
			"\n" +
			"#1 `A` https://example.com/a\n" +
			"#2 `B` https://example.com/b\n" +
			"\n" +
			"**ソース**: `Google検索`\n" +
			"**対象名**: `自宅`"
		if got != want {
			t.Errorf("Unexpected message:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("Search identity still reads as unknown caller", func(t *testing.T) {
		identity := &models.Identity{
			Kind:   models.IdentitySearch,
			Source: "Google検索",
		}

		got := BuildMessage(detail, identity, "自宅")
		if !strings.Contains(got, "`不明`") {
			t.Errorf("Expected unknown caller label in:\n%s", got)
		}
	})
}
