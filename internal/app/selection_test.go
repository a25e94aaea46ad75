package app

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"quiz-client/internal/domain"

	"github.com/stretchr/testify/assert"
)

func numbered(n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{Text: string(rune('A' + i%26)) + string(rune('a'+i/26)), Correct: "x"}
	}
	return out
}

func texts(qs []domain.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func TestShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	in := numbered(50)
	for run := 0; run < 20; run++ {
		out := Shuffle(in, rnd)
		assert.Len(t, out, len(in))
		got, want := texts(out), texts(in)
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, texts(numbered(50)), texts(in), "input left untouched")
}

func TestShuffleWithLimit(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	assert.Len(t, ShuffleWithLimit(numbered(10), 3, rnd), 3)
	assert.Len(t, ShuffleWithLimit(numbered(10), 0, rnd), 10)
	assert.Len(t, ShuffleWithLimit(numbered(10), 30, rnd), 10)
	assert.Empty(t, ShuffleWithLimit(nil, 5, rnd))
}

func TestTimeBudget(t *testing.T) {
	cases := map[int]time.Duration{
		1:   15 * time.Minute,
		15:  15 * time.Minute,
		16:  30 * time.Minute,
		25:  30 * time.Minute,
		26:  60 * time.Minute,
		50:  60 * time.Minute,
		51:  90 * time.Minute,
		100: 90 * time.Minute,
	}
	for max, want := range cases {
		assert.Equal(t, want, TimeBudget(max), "max=%d", max)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "70.00%", Percentage(7, 10))
	assert.Equal(t, "66.67%", Percentage(2, 3))
	assert.Equal(t, "33.33%", Percentage(1, 3))
	assert.Equal(t, "100.00%", Percentage(5, 5))
	assert.Equal(t, "0.00%", Percentage(0, 0))
}

func TestSelectQuestions(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	set := domain.QuestionSet{Questions: numbered(40), MaxQuestions: 20}

	free := selectQuestions(set, false, 5, rnd)
	assert.Equal(t, texts(numbered(20)), texts(free), "free tier ignores the request and keeps server order")

	sub := selectQuestions(set, true, 5, rnd)
	assert.Len(t, sub, 5)

	clamped := selectQuestions(set, true, 35, rnd)
	assert.Len(t, clamped, 20)

	uncapped := selectQuestions(domain.QuestionSet{Questions: numbered(8)}, false, 0, rnd)
	assert.Len(t, uncapped, 8)

	short := selectQuestions(domain.QuestionSet{Questions: numbered(4), MaxQuestions: 15}, true, 10, rnd)
	assert.Len(t, short, 4)
}

func TestQuizSessionScoreMatchesAnswers(t *testing.T) {
	qs := []domain.Question{
		{Text: "a", Options: []string{"1", "2"}, Correct: "1"},
		{Text: "b", Options: []string{"1", "2"}, Correct: "2"},
		{Text: "c", Options: []string{"1", "2"}, Correct: "2"},
	}
	q := newQuizSession("Al", "go", qs, 3)
	picks := []string{"1", "1", "2"}
	for i, p := range picks {
		q.Index = i
		_, err := q.answer(p)
		assert.NoError(t, err)
		_, err = q.answer(p)
		assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)
	}

	correct := 0
	for _, rec := range q.Answered {
		if rec.WasCorrect {
			correct++
		}
	}
	assert.Equal(t, correct, q.Score)
	assert.Equal(t, 2, q.Score)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "90:00", formatClock(90*time.Minute))
	assert.Equal(t, "00:59", formatClock(59*time.Second))
	assert.Equal(t, "00:00", formatClock(-time.Second))
}
