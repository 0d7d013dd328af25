package room

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError rejects a malformed message. Non-fatal and surfaced to the
// sender only.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message: %s", e.Reason)
}

// validateMessage checks raw text against the configured limits. The length
// check runs on the raw string; trimming happens at storage time.
func validateMessage(raw string, maxChars int) error {
	if strings.TrimSpace(raw) == "" {
		return &ValidationError{Reason: "message is empty"}
	}
	if utf8.RuneCountInString(raw) > maxChars {
		return &ValidationError{Reason: fmt.Sprintf("message exceeds %d characters", maxChars)}
	}
	return nil
}
