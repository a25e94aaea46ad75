// Package view defines what a front-end draws. A View is rebuilt from controller
// state after every transition and carries no behavior of its own.
package view

// Option tags.
const (
	OptionCorrect   = "correct"
	OptionIncorrect = "incorrect"
)

type Option struct {
	Text     string `json:"text"`
	State    string `json:"state,omitempty"`
	Disabled bool   `json:"disabled"`
}

type Question struct {
	Number       int      `json:"number"`
	Total        int      `json:"total"`
	Text         string   `json:"text"`
	Options      []Option `json:"options"`
	BackDisabled bool     `json:"backDisabled"`
	NextDisabled bool     `json:"nextDisabled"`
	Last         bool     `json:"last"`
	Remaining    string   `json:"remaining"`
	Score        int      `json:"score"`
}

type Start struct {
	CountOptions []int  `json:"countOptions"`
	DisplayName  string `json:"displayName"`
	Course       string `json:"course"`
}

type Result struct {
	DisplayName string `json:"displayName"`
	Course      string `json:"course"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	Percentage  string `json:"percentage"`
}

// View is the full render model of one screen.
type View struct {
	Screen           string    `json:"screen"`
	Username         string    `json:"username,omitempty"`
	Subscribed       bool      `json:"subscribed"`
	Message          string    `json:"message,omitempty"`
	Notice           string    `json:"notice,omitempty"`
	Alert            string    `json:"alert,omitempty"`
	LoginUsername    string    `json:"loginUsername"`
	RegisterUsername string    `json:"registerUsername"`
	Start            *Start    `json:"start,omitempty"`
	Question         *Question `json:"question,omitempty"`
	Result           *Result   `json:"result,omitempty"`
}

// WithoutClock returns a copy of v with the countdown blanked, so two views can
// be compared for content changes.
func (v View) WithoutClock() View {
	if v.Question != nil {
		q := *v.Question
		q.Remaining = ""
		v.Question = &q
	}
	return v
}
