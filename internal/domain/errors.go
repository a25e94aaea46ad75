package domain

import "errors"

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation error")
	// ErrNotAuthenticated is returned when an action needs a session and there is none.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrNoCredentials is returned by credential stores when nothing is persisted.
	ErrNoCredentials = errors.New("no stored credentials")
	// ErrNoQuiz is returned when a quiz action arrives without a running quiz.
	ErrNoQuiz = errors.New("no quiz in progress")
	// ErrAlreadyAnswered is returned when a question already has a recorded answer.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrOptionNotFound indicates a selected option is not part of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNoQuestions is returned when the course yields nothing to ask.
	ErrNoQuestions = errors.New("no questions available for this course")
	// ErrInvalidPayload is returned by the dispatcher when an action payload cannot be decoded.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrWrongScreen is returned when an action does not belong to the active screen.
	ErrWrongScreen = errors.New("action not available on this screen")
	// ErrUnknownAction is returned by the dispatcher for unmapped actions.
	ErrUnknownAction = errors.New("unsupported action")
)
