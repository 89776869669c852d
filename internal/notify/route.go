package notify

import (
	"regexp"

	"github.com/ternarybob/callwatch/internal/models"
)

// UnknownSelfName is returned when no configured self matches a call.
const UnknownSelfName = "UNKNOWN"

// conditionFields pairs each matchable condition field with its typed
// accessor on CallDetail, replacing dynamic property lookup with an
// explicit field enumeration.
var conditionFields = []struct {
	pattern func(*models.Condition) string
	value   func(*models.CallDetail) string
}{
	{func(c *models.Condition) string { return c.Direction }, func(d *models.CallDetail) string { return string(d.Direction) }},
	{func(c *models.Condition) string { return c.SelfNumber }, func(d *models.CallDetail) string { return d.SelfNumber }},
	{func(c *models.Condition) string { return c.CallerNumber }, func(d *models.CallDetail) string { return d.CallerNumber }},
	{func(c *models.Condition) string { return c.Status }, func(d *models.CallDetail) string { return string(d.Status) }},
}

// matchCondition reports whether every configured pattern matches its
// detail field. Empty patterns are unconstrained. Patterns are
// validated at startup; a pattern that fails to compile here never
// matches.
func matchCondition(detail *models.CallDetail, cond *models.Condition) bool {
	for _, field := range conditionFields {
		pattern := field.pattern(cond)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		if !re.MatchString(field.value(detail)) {
			return false
		}
	}
	return true
}

// MatchDestination returns the first destination in configured order
// whose condition fully matches the call, or nil when none does.
func MatchDestination(detail models.CallDetail, destinations []models.Destination) *models.Destination {
	for i := range destinations {
		if matchCondition(&detail, &destinations[i].Condition) {
			return &destinations[i]
		}
	}
	return nil
}

// MatchSelf returns the label of the first matching self entry, or the
// UNKNOWN sentinel.
func MatchSelf(detail models.CallDetail, selfs []models.Self) string {
	for i := range selfs {
		if matchCondition(&detail, &selfs[i].Condition) {
			return selfs[i].Name
		}
	}
	return UnknownSelfName
}
