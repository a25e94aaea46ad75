package domain

import "time"

// Session is the authenticated state of a logged-in user.
type Session struct {
	Username     string
	SessionToken string
	IsSubscribed bool
}

// Credentials are what a client persists between runs.
type Credentials struct {
	Username     string `json:"username" yaml:"username"`
	SessionToken string `json:"sessionToken" yaml:"session_token"`
}

// Question models an MCQ question; Correct holds the text of the right option.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// QuestionSet is what the backend returns for a course.
type QuestionSet struct {
	Questions    []Question `json:"questions"`
	MaxQuestions int        `json:"maxQuestions"`
}

// QuestionQuery identifies a question fetch.
type QuestionQuery struct {
	Username   string
	Course     string
	Count      int
	Subscribed bool
	Token      string
}

// AnsweredRecord is the outcome of a single question within one quiz run.
type AnsweredRecord struct {
	SelectedOption string `json:"selectedOption"`
	WasCorrect     bool   `json:"wasCorrect"`
}

// Result summarizes a finished quiz run.
type Result struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Course      string    `json:"course"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  string    `json:"percentage"`
	TimedOut    bool      `json:"timedOut"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// LoginResult is the backend response to a login or session check.
type LoginResult struct {
	Message      string
	SessionToken string
	IsSubscribed bool
}

// AccessResult is the backend response to an access-code redemption.
type AccessResult struct {
	Message      string
	IsSubscribed bool
}
