package notify

import (
	"testing"

	"github.com/ternarybob/callwatch/internal/models"
)

func TestMatchDestination(t *testing.T) {
	detail := models.CallDetail{
		Direction:    models.DirectionIncoming,
		SelfNumber:   "10",
		CallerNumber: "0312345678",
		Status:       models.StatusConnecting,
	}

	t.Run("First matching destination wins", func(t *testing.T) {
		destinations := []models.Destination{
			{Name: "specific", Type: models.DestinationSlack, Condition: models.Condition{CallerNumber: "^0312345678$"}},
			{Name: "catch-all", Type: models.DestinationSlack},
		}

		dest := MatchDestination(detail, destinations)
		if dest == nil || dest.Name != "specific" {
			t.Fatalf("Expected specific destination, got %+v", dest)
		}
	})

	t.Run("Catch-all receives non-matching calls", func(t *testing.T) {
		destinations := []models.Destination{
			{Name: "specific", Type: models.DestinationSlack, Condition: models.Condition{CallerNumber: "^0000000000$"}},
			{Name: "catch-all", Type: models.DestinationSlack},
		}

		dest := MatchDestination(detail, destinations)
		if dest == nil || dest.Name != "catch-all" {
			t.Fatalf("Expected catch-all destination, got %+v", dest)
		}
	})

	t.Run("All condition fields must match", func(t *testing.T) {
		destinations := []models.Destination{
			{Name: "partial", Type: models.DestinationSlack, Condition: models.Condition{
				Direction: "incoming",
				Status:    "disconnected",
			}},
		}

		if dest := MatchDestination(detail, destinations); dest != nil {
			t.Errorf("Expected no match, got %+v", dest)
		}
	})

	t.Run("Direction and status match as strings", func(t *testing.T) {
		destinations := []models.Destination{
			{Name: "incoming-ring", Type: models.DestinationSlack, Condition: models.Condition{
				Direction: "^incoming$",
				Status:    "^connecting$",
			}},
		}

		dest := MatchDestination(detail, destinations)
		if dest == nil || dest.Name != "incoming-ring" {
			t.Fatalf("Expected match, got %+v", dest)
		}
	})

	t.Run("No destinations yields nil", func(t *testing.T) {
		if dest := MatchDestination(detail, nil); dest != nil {
			t.Errorf("Expected nil, got %+v", dest)
		}
	})

	t.Run("Invalid pattern never matches", func(t *testing.T) {
		destinations := []models.Destination{
			{Name: "broken", Type: models.DestinationSlack, Condition: models.Condition{CallerNumber: "("}},
			{Name: "fallback", Type: models.DestinationSlack},
		}

		dest := MatchDestination(detail, destinations)
		if dest == nil || dest.Name != "fallback" {
			t.Fatalf("Expected fallback destination, got %+v", dest)
		}
	})
}

func TestMatchSelf(t *testing.T) {
	detail := models.CallDetail{
		Direction:    models.DirectionIncoming,
		SelfNumber:   "10",
		CallerNumber: "0312345678",
		Status:       models.StatusConnecting,
	}

	t.Run("Matching self entry returns its label", func(t *testing.T) {
		selfs := []models.Self{
			{Name: "自宅", Condition: models.Condition{SelfNumber: "^10$"}},
			{Name: "事務所", Condition: models.Condition{SelfNumber: "^11$"}},
		}

		if got := MatchSelf(detail, selfs); got != "自宅" {
			t.Errorf("Expected 自宅, got %s", got)
		}
	})

	t.Run("No match falls back to the sentinel", func(t *testing.T) {
		selfs := []models.Self{
			{Name: "事務所", Condition: models.Condition{SelfNumber: "^11$"}},
		}

		if got := MatchSelf(detail, selfs); got != UnknownSelfName {
			t.Errorf("Expected %s, got %s", UnknownSelfName, got)
		}
	})
}
