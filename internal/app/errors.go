package app

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"quiz-client/internal/api"
	"quiz-client/internal/domain"
)

// inputError is a validation failure with a message meant for the user.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return domain.ErrValidation }

func invalid(msg string) error {
	return &inputError{msg: msg}
}

func userMessage(err error) string {
	msg := strings.TrimSpace(api.Message(err))
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
