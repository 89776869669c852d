package notify

import (
	"fmt"
	"strings"

	"github.com/ternarybob/callwatch/internal/models"
)

const unknownLabel = "不明"

// DirectionLabel localizes the call direction
func DirectionLabel(direction models.Direction) string {
	switch direction {
	case models.DirectionIncoming:
		return "着信"
	case models.DirectionOutgoing:
		return "発信"
	default:
		return "UNKNOWN"
	}
}

// StatusLabel localizes the connection state. The connecting state
// reads differently for incoming and outgoing calls.
func StatusLabel(status models.CallStatus, direction models.Direction) string {
	switch status {
	case models.StatusConnected:
		return "通話中"
	case models.StatusDisconnected:
		return "切断"
	case models.StatusConnecting:
		if direction == models.DirectionIncoming {
			return "着信中"
		}
		return "発信中"
	default:
		return "UNKNOWN"
	}
}

// callerLabel is the display name for the remote side. Only a resolved
// name counts; a search result set still reads as unknown.
func callerLabel(identity *models.Identity) string {
	if identity == nil || identity.Kind != models.IdentityName {
		return unknownLabel
	}
	return identity.Name
}

func sourceLabel(identity *models.Identity) string {
	if identity == nil {
		return unknownLabel
	}
	return identity.Source
}

// BuildMessage formats the outbound notification. The rich form (used
// when the identity is a search result set) lists up to the top three
// titled result links; the short form carries only source and self.
func BuildMessage(detail models.CallDetail, identity *models.Identity, selfName string) string {
	statusText := StatusLabel(detail.Status, detail.Direction)
	directionText := DirectionLabel(detail.Direction)
	header := fmt.Sprintf("☎ **【%s】%s `%s` (`%s`)**", statusText, directionText, callerLabel(identity), detail.CallerNumber)

	if identity != nil && identity.Kind == models.IdentitySearch {
		lines := []string{header, ""}
		for i, item := range identity.Items {
			lines = append(lines, fmt.Sprintf("#%d `%s` %s", i+1, item.Title, item.URL))
		}
		lines = append(lines,
			"",
			fmt.Sprintf("**ソース**: `%s`", sourceLabel(identity)),
			fmt.Sprintf("**対象名**: `%s`", selfName),
		)
		return strings.Join(lines, "\n")
	}

	return strings.Join([]string{
		header,
		"",
		fmt.Sprintf("**ソース**: %s", sourceLabel(identity)),
		fmt.Sprintf("**対象名**: %s", selfName),
	}, "\n")
}
