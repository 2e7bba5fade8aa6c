package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"todostack/todostack/models"
)

// Mode distinguishes create payloads, where every field is required, from
// update payloads, where absent fields fill from the existing record.
type Mode int

const (
	Create Mode = iota
	Update
)

// NormalizedTodo is a validated, canonicalized payload ready for
// persistence: title/description trimmed, status/priority canonical,
// due date parsed.
type NormalizedTodo struct {
	Title       string
	Description string
	Status      models.TodoStatus
	Priority    models.TodoPriority
	DueDate     time.Time
}

const (
	titleMinLen       = 4
	descriptionMinLen = 10
)

// ValidateTodoPayload checks a raw request payload and produces either a
// normalized todo or the first validation failure, in this order: title
// (present, non-empty, character class, length), description (same, with
// a longer minimum), status enum, priority enum, due-date grammar and
// parse, future check. It never touches storage.
//
// In Update mode, existing supplies values for absent fields; a field
// present in the payload is validated and applied, a carried-forward
// field is not re-checked. Due dates carried forward skip the future
// check so records that are already overdue stay editable.
func ValidateTodoPayload(payload map[string]interface{}, now time.Time, mode Mode, existing *models.Todo, policy CharPolicy, grammar DueDateGrammar) (NormalizedTodo, *Error) {
	merge := mode == Update && existing != nil
	var normalized NormalizedTodo

	if merge && !hasKey(payload, "title") {
		normalized.Title = existing.Title
	} else {
		title, vErr := textField(payload, "title", "Title", titleMinLen, policy, now)
		if vErr != nil {
			return NormalizedTodo{}, vErr
		}
		normalized.Title = title
	}

	if merge && !hasKey(payload, "description") {
		normalized.Description = existing.Description
	} else {
		description, vErr := textField(payload, "description", "Description", descriptionMinLen, policy, now)
		if vErr != nil {
			return NormalizedTodo{}, vErr
		}
		normalized.Description = description
	}

	if raw, ok := payload["status"]; ok {
		s, isString := raw.(string)
		if !isString || !IsKnownStatus(s) {
			return NormalizedTodo{}, newError(CodeInvalidEnum, "status",
				"Status must be one of: pending, in_progress, completed", now)
		}
		normalized.Status = CanonicalStatus(s)
	} else if merge {
		normalized.Status = existing.Status
	} else {
		return NormalizedTodo{}, newError(CodeInvalidEnum, "status",
			"Status must be one of: pending, in_progress, completed", now)
	}

	if raw, ok := payload["priority"]; ok {
		s, isString := raw.(string)
		if !isString || !IsKnownPriority(s) {
			return NormalizedTodo{}, newError(CodeInvalidEnum, "priority",
				"Priority must be one of: low, medium, high", now)
		}
		normalized.Priority = CanonicalPriority(s)
	} else if merge {
		normalized.Priority = existing.Priority
	} else {
		return NormalizedTodo{}, newError(CodeInvalidEnum, "priority",
			"Priority must be one of: low, medium, high", now)
	}

	if raw, ok := dueDateValue(payload); ok {
		s, isString := raw.(string)
		if !isString {
			return NormalizedTodo{}, malformedTimestamp(grammar, now)
		}
		dueDate, err := ParseDueDateTime(s, grammar)
		if err != nil {
			return NormalizedTodo{}, malformedTimestamp(grammar, now)
		}
		if !IsFutureInstant(dueDate, now) {
			return NormalizedTodo{}, newError(CodeDueDateNotFuture, "dueDate",
				"Due date and time should be greater than the current date", now)
		}
		normalized.DueDate = dueDate
	} else if merge {
		normalized.DueDate = existing.DueDate
	} else {
		return NormalizedTodo{}, malformedTimestamp(grammar, now)
	}

	return normalized, nil
}

// textField runs the ordered checks shared by title and description:
// presence and type, non-empty after trimming, character class, minimum
// trimmed length in runes.
func textField(payload map[string]interface{}, field, label string, minLen int, policy CharPolicy, now time.Time) (string, *Error) {
	raw, ok := payload[field]
	if !ok {
		return "", newError(CodeMissingOrWrongType, field,
			fmt.Sprintf("%s must be a string", label), now)
	}
	s, isString := raw.(string)
	if !isString {
		return "", newError(CodeMissingOrWrongType, field,
			fmt.Sprintf("%s must be a string", label), now)
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", newError(CodeEmptyField, field,
			fmt.Sprintf("%s must be a non-empty string", label), now)
	}
	if !IsTextOnly(trimmed, policy) {
		return "", newError(CodeInvalidCharacters, field,
			fmt.Sprintf("%s must contain only %s", label, allowedCharacters(policy)), now)
	}
	if utf8.RuneCountInString(trimmed) < minLen {
		return "", newError(CodeTooShort, field,
			fmt.Sprintf("%s should be at least %d characters long", label, minLen), now)
	}
	return trimmed, nil
}

func allowedCharacters(policy CharPolicy) string {
	if policy == StrictPolicy {
		return "alphabets and whitespaces"
	}
	return "alphabets, whitespaces, periods, underscores, and numeric characters"
}

func malformedTimestamp(grammar DueDateGrammar, now time.Time) *Error {
	return newError(CodeMalformedTimestamp, "dueDate",
		fmt.Sprintf("Due date and time must be a valid date-time string in the format %s", DueDateFormat(grammar)), now)
}

// dueDateValue accepts either payload key for the due date; dueDate wins
// when both are present.
func dueDateValue(payload map[string]interface{}) (interface{}, bool) {
	if raw, ok := payload["dueDate"]; ok {
		return raw, true
	}
	if raw, ok := payload["dueDateTime"]; ok {
		return raw, true
	}
	return nil, false
}

func hasKey(payload map[string]interface{}, key string) bool {
	_, ok := payload[key]
	return ok
}
