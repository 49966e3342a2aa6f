package task

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxFieldChars is the longest name, project or sub line a task may carry.
// It matches the most characters a spreadsheet cell holds, so every stored
// task survives export unchanged.
const MaxFieldChars = 32767

// ValidateCreateInput validates fields required to create a task.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateText("name", req.Name); err != nil {
		return err
	}
	if err := validateText("project", req.Project); err != nil {
		return err
	}
	if err := validateText("sub line", req.SubLine); err != nil {
		return err
	}
	if req.CompletionTime != nil && !req.Completed {
		return fmt.Errorf("%w: completion time set on a pending task", ErrInvalidInput)
	}
	return nil
}

// ValidateUpdateInput validates an update request.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalidInput)
	}
	for _, f := range []struct {
		label string
		value *string
	}{
		{"name", req.Name},
		{"project", req.Project},
		{"sub line", req.SubLine},
	} {
		if f.value == nil {
			continue
		}
		if err := validateText(f.label, *f.value); err != nil {
			return err
		}
	}
	return nil
}

// validateText rejects text that a spreadsheet cell cannot hold verbatim:
// invalid UTF-8, control characters other than tab and line breaks, the
// noncharacters U+FFFE and U+FFFF, and anything over MaxFieldChars once
// trimmed.
func validateText(label, value string) error {
	value = strings.TrimSpace(value)
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidInput, label)
	}
	if n := utf8.RuneCountInString(value); n > MaxFieldChars {
		return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrInvalidInput, label, n, MaxFieldChars)
	}
	for _, r := range value {
		if !IsCellRune(r) {
			return fmt.Errorf("%w: %s contains character %U", ErrInvalidInput, label, r)
		}
	}
	return nil
}

// IsCellRune reports whether r can be stored in a spreadsheet cell.
func IsCellRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	default:
		return true
	}
}
