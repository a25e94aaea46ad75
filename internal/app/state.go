package app

import (
	"slices"
	"time"

	"quiz-client/internal/domain"
)

// Screen is one node of the navigation state machine.
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenRegister     Screen = "register"
	ScreenSubscription Screen = "subscription"
	ScreenStart        Screen = "start"
	ScreenQuiz         Screen = "quiz"
	ScreenResult       Screen = "result"
)

// StartForm is what the Start screen shows and remembers.
type StartForm struct {
	CountOptions []int
	DisplayName  string
	Course       string
}

// State is everything the controller knows. Exactly one screen is active.
type State struct {
	Screen           Screen
	Session          *domain.Session
	Message          string
	Notice           string
	Alert            string
	LoginUsername    string
	RegisterUsername string
	Start            StartForm
	Quiz             *QuizSession
	Result           *domain.Result
}

// QuizSession is one quiz run. Answered entries are written once and never cleared.
type QuizSession struct {
	DisplayName  string
	Course       string
	Questions    []domain.Question
	MaxQuestions int
	Index        int
	Budget       time.Duration
	Remaining    time.Duration
	Score        int
	Answered     map[int]domain.AnsweredRecord
}

func newQuizSession(displayName, course string, questions []domain.Question, maxQuestions int) *QuizSession {
	budget := TimeBudget(maxQuestions)
	return &QuizSession{
		DisplayName:  displayName,
		Course:       course,
		Questions:    questions,
		MaxQuestions: maxQuestions,
		Budget:       budget,
		Remaining:    budget,
		Answered:     make(map[int]domain.AnsweredRecord),
	}
}

func (q *QuizSession) current() domain.Question {
	return q.Questions[q.Index]
}

func (q *QuizSession) last() bool {
	return q.Index == len(q.Questions)-1
}

// answer records option for the current question; the first selection wins.
func (q *QuizSession) answer(option string) (domain.AnsweredRecord, error) {
	if rec, ok := q.Answered[q.Index]; ok {
		return rec, domain.ErrAlreadyAnswered
	}
	question := q.current()
	if !slices.Contains(question.Options, option) {
		return domain.AnsweredRecord{}, domain.ErrOptionNotFound
	}
	rec := domain.AnsweredRecord{
		SelectedOption: option,
		WasCorrect:     option == question.Correct,
	}
	q.Answered[q.Index] = rec
	if rec.WasCorrect {
		q.Score++
	}
	return rec, nil
}
