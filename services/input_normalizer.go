package services

import (
	"strings"
	"unicode/utf8"
)

// Field limits, in runes.
const (
	MaxStudentIDLength = 100
	MaxQuestionLength  = 1000
	MaxAnswerLength    = 2000
	MaxAnalyzeLength   = 3000
)

// NormalizeInput trims a text field and checks it is non-empty, valid UTF-8
// and within maxRunes.
func NormalizeInput(field, value string, maxRunes int) (string, error) {
	if !utf8.ValidString(value) {
		return "", newValidationError(field, "must be valid UTF-8 text")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", newValidationError(field, "must not be empty")
	}
	if strings.ContainsRune(value, 0) {
		return "", newValidationError(field, "must not contain NUL characters")
	}
	if maxRunes > 0 && utf8.RuneCountInString(value) > maxRunes {
		return "", newValidationError(field, "must be at most %d characters", maxRunes)
	}
	return value, nil
}
