package app

import (
	"math/rand"
	"time"

	"quiz-client/internal/domain"

	"github.com/shopspring/decimal"
)

// TimeBudget returns the countdown for a quiz whose tier allows maxQuestions.
func TimeBudget(maxQuestions int) time.Duration {
	switch {
	case maxQuestions <= 15:
		return 15 * time.Minute
	case maxQuestions <= 25:
		return 30 * time.Minute
	case maxQuestions <= 50:
		return 60 * time.Minute
	default:
		return 90 * time.Minute
	}
}

// Shuffle returns a uniformly permuted copy of questions (Fisher-Yates).
func Shuffle(questions []domain.Question, rnd *rand.Rand) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ShuffleWithLimit shuffles and keeps at most limit questions.
func ShuffleWithLimit(questions []domain.Question, limit int, rnd *rand.Rand) []domain.Question {
	shuffled := Shuffle(questions, rnd)
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

// tierMax is the backend-declared cap, or the whole set when none is declared.
func tierMax(set domain.QuestionSet) int {
	if set.MaxQuestions > 0 {
		return set.MaxQuestions
	}
	return len(set.Questions)
}

// selectQuestions picks the questions of a run. Subscribers get a random sample of
// the requested size, clamped to the tier max; free users get the first max
// questions in server order.
func selectQuestions(set domain.QuestionSet, subscribed bool, requested int, rnd *rand.Rand) []domain.Question {
	limit := tierMax(set)
	if subscribed {
		if requested > 0 && requested < limit {
			limit = requested
		}
		return ShuffleWithLimit(set.Questions, limit, rnd)
	}
	if limit > len(set.Questions) {
		limit = len(set.Questions)
	}
	return append([]domain.Question(nil), set.Questions[:limit]...)
}

// Percentage formats score/total*100 with two decimals, e.g. "70.00%".
func Percentage(score, total int) string {
	if total <= 0 {
		return "0.00%"
	}
	pct := decimal.NewFromInt(int64(score)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return pct.StringFixed(2) + "%"
}
