package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"todostack/todostack/models"
)

// CharPolicy selects which characters are legal in free-text fields.
type CharPolicy int

const (
	// StrictPolicy allows letters and whitespace only.
	StrictPolicy CharPolicy = iota
	// ExtendedPolicy additionally allows digits, periods and underscores.
	ExtendedPolicy
)

// ParseCharPolicy maps a configuration value to a policy. Unknown values
// fall back to ExtendedPolicy.
func ParseCharPolicy(name string) CharPolicy {
	if strings.EqualFold(name, "strict") {
		return StrictPolicy
	}
	return ExtendedPolicy
}

// DueDateGrammar selects the accepted due-date text format. A deployment
// accepts exactly one grammar.
type DueDateGrammar int

const (
	// SecondsGrammar accepts YYYY-MM-DDTHH:MM:SS.
	SecondsGrammar DueDateGrammar = iota
	// NanosGrammar accepts YYYY-MM-DDTHH:MM:SS.fffffffff with exactly
	// nine fractional digits.
	NanosGrammar
)

// ParseDueDateGrammar maps a configuration value to a grammar. Unknown
// values fall back to SecondsGrammar.
func ParseDueDateGrammar(name string) DueDateGrammar {
	if strings.EqualFold(name, "nanos") {
		return NanosGrammar
	}
	return SecondsGrammar
}

const (
	secondsLayout = "2006-01-02T15:04:05"
	nanosLayout   = "2006-01-02T15:04:05.000000000"
)

// time.Parse is lenient about digit counts, so the grammar is enforced
// with a pattern first.
var (
	secondsPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
	nanosPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}$`)
)

// IsTextOnly reports whether s is non-empty and contains only characters
// allowed by the policy. Letters are ASCII.
func IsTextOnly(s string, policy CharPolicy) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', unicode.IsSpace(r):
		case policy == ExtendedPolicy && (r >= '0' && r <= '9' || r == '.' || r == '_'):
		default:
			return false
		}
	}
	return true
}

// CanonicalStatus lower-cases s and collapses interior whitespace to a
// single underscore, so "In Progress" and "in_progress" canonicalize to
// the same value.
func CanonicalStatus(s string) models.TodoStatus {
	return models.TodoStatus(strings.Join(strings.Fields(strings.ToLower(s)), "_"))
}

// CanonicalPriority lower-cases and trims s.
func CanonicalPriority(s string) models.TodoPriority {
	return models.TodoPriority(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnownStatus reports whether s canonicalizes to one of the fixed
// status values.
func IsKnownStatus(s string) bool {
	switch CanonicalStatus(s) {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
		return true
	}
	return false
}

// IsKnownPriority reports whether s canonicalizes to one of the fixed
// priority values.
func IsKnownPriority(s string) bool {
	switch CanonicalPriority(s) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// ParseDueDateTime parses raw under the given grammar. Strings that do
// not match the grammar, or match it but do not name a valid calendar
// instant, are rejected.
func ParseDueDateTime(raw string, grammar DueDateGrammar) (time.Time, error) {
	pattern, layout := secondsPattern, secondsLayout
	if grammar == NanosGrammar {
		pattern, layout = nanosPattern, nanosLayout
	}
	if !pattern.MatchString(raw) {
		return time.Time{}, fmt.Errorf("due date %q does not match format %s", raw, DueDateFormat(grammar))
	}
	return time.ParseInLocation(layout, raw, time.Local)
}

// DueDateFormat names the accepted format for error messages.
func DueDateFormat(grammar DueDateGrammar) string {
	if grammar == NanosGrammar {
		return "YYYY-MM-DDTHH:MM:SS.SSSSSSSSS"
	}
	return "YYYY-MM-DDTHH:MM:SS"
}

// IsFutureInstant reports whether t is strictly after now.
func IsFutureInstant(t, now time.Time) bool {
	return t.After(now)
}
