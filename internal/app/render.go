package app

import (
	"fmt"
	"time"

	"quiz-client/internal/view"
)

// project is a pure function of state; it is the only way state reaches a front-end.
func project(s *State) view.View {
	v := view.View{
		Screen:           string(s.Screen),
		Message:          s.Message,
		Notice:           s.Notice,
		Alert:            s.Alert,
		LoginUsername:    s.LoginUsername,
		RegisterUsername: s.RegisterUsername,
	}
	if s.Session != nil {
		v.Username = s.Session.Username
		v.Subscribed = s.Session.IsSubscribed
	}

	switch s.Screen {
	case ScreenStart:
		v.Start = &view.Start{
			CountOptions: append([]int(nil), s.Start.CountOptions...),
			DisplayName:  s.Start.DisplayName,
			Course:       s.Start.Course,
		}
	case ScreenQuiz:
		if s.Quiz != nil {
			v.Question = projectQuestion(s.Quiz)
		}
	case ScreenResult:
		if r := s.Result; r != nil {
			v.Result = &view.Result{
				DisplayName: r.DisplayName,
				Course:      r.Course,
				Score:       r.Score,
				Total:       r.Total,
				Percentage:  r.Percentage,
			}
		}
	}
	return v
}

// projectQuestion renders the current question. An answered question is locked:
// the pick is tagged, the right option is tagged when the pick was wrong.
func projectQuestion(q *QuizSession) *view.Question {
	question := q.current()
	rec, answered := q.Answered[q.Index]

	options := make([]view.Option, len(question.Options))
	for i, text := range question.Options {
		opt := view.Option{Text: text, Disabled: answered}
		if answered {
			switch {
			case text == rec.SelectedOption && rec.WasCorrect:
				opt.State = view.OptionCorrect
			case text == rec.SelectedOption:
				opt.State = view.OptionIncorrect
			case !rec.WasCorrect && text == question.Correct:
				opt.State = view.OptionCorrect
			}
		}
		options[i] = opt
	}

	return &view.Question{
		Number:       q.Index + 1,
		Total:        len(q.Questions),
		Text:         question.Text,
		Options:      options,
		BackDisabled: q.Index == 0,
		NextDisabled: !answered,
		Last:         q.last(),
		Remaining:    formatClock(q.Remaining),
		Score:        q.Score,
	}
}

// formatClock renders d as mm:ss; minutes are not wrapped into hours.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
