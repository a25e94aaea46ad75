package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"quiz-client/internal/domain"

	"github.com/google/uuid"
)

const tick = time.Second

// Start fetches questions for course and begins a timed run.
func (c *Controller) Start(ctx context.Context, displayName, course string, count int) error {
	displayName = strings.TrimSpace(displayName)
	course = strings.TrimSpace(course)

	c.mu.Lock()
	sess := c.state.Session
	var verr error
	switch {
	case sess == nil:
		verr = domain.ErrNotAuthenticated
	case c.state.Screen != ScreenStart:
		err := c.onScreenLocked(ScreenStart)
		c.mu.Unlock()
		return err
	case displayName == "":
		verr = invalid("Please enter your name.")
	case course == "":
		verr = invalid("Please select a course.")
	}
	c.state.Start.DisplayName = displayName
	c.state.Start.Course = course
	if verr != nil {
		err := c.fail(verr)
		c.renderLocked()
		c.mu.Unlock()
		return err
	}
	if count <= 0 && len(c.state.Start.CountOptions) > 0 {
		count = c.state.Start.CountOptions[0]
	}
	query := domain.QuestionQuery{
		Username:   sess.Username,
		Course:     course,
		Count:      count,
		Subscribed: sess.IsSubscribed,
		Token:      sess.SessionToken,
	}
	c.mu.Unlock()

	set, err := c.questions.Questions(ctx, query)
	return c.update(func() error {
		if c.state.Session != sess {
			return domain.ErrNotAuthenticated
		}
		if serr := c.onScreenLocked(ScreenStart); serr != nil {
			return serr
		}
		if err != nil {
			c.log.Warn("fetch questions", "course", course, "err", err)
			return c.fail(err)
		}
		selected := selectQuestions(set, sess.IsSubscribed, count, c.rnd)
		if len(selected) == 0 {
			return c.fail(domain.ErrNoQuestions)
		}

		c.stopCountdownLocked()
		c.state.Quiz = newQuizSession(displayName, course, selected, tierMax(set))
		c.state.Result = nil
		c.show(ScreenQuiz)
		c.startCountdownLocked()
		return nil
	})
}

// SelectOption answers the current question. Only the first selection counts.
func (c *Controller) SelectOption(option string) error {
	return c.update(func() error {
		q := c.state.Quiz
		if q == nil || c.state.Screen != ScreenQuiz {
			return domain.ErrNoQuiz
		}
		_, err := q.answer(option)
		return err
	})
}

// Back moves to the previous question.
func (c *Controller) Back() error {
	return c.update(func() error {
		q := c.state.Quiz
		if q == nil || c.state.Screen != ScreenQuiz {
			return domain.ErrNoQuiz
		}
		if q.Index > 0 {
			q.Index--
		}
		return nil
	})
}

// Next moves forward once the current question is answered; on the last question it ends the quiz.
func (c *Controller) Next(ctx context.Context) error {
	var finished *domain.Result
	err := c.update(func() error {
		q := c.state.Quiz
		if q == nil || c.state.Screen != ScreenQuiz {
			return domain.ErrNoQuiz
		}
		if _, ok := q.Answered[q.Index]; !ok {
			return nil
		}
		if q.last() {
			finished = c.endLocked(false)
			return nil
		}
		q.Index++
		return nil
	})
	c.record(ctx, finished)
	return err
}

// End finishes the running quiz and shows the result.
func (c *Controller) End(ctx context.Context) error {
	var finished *domain.Result
	err := c.update(func() error {
		if c.state.Quiz == nil || c.state.Screen != ScreenQuiz {
			return domain.ErrNoQuiz
		}
		finished = c.endLocked(false)
		return nil
	})
	c.record(ctx, finished)
	return err
}

// Cancel drops the running quiz without a result.
func (c *Controller) Cancel() error {
	return c.update(func() error {
		if c.state.Quiz == nil {
			return domain.ErrNoQuiz
		}
		c.stopCountdownLocked()
		c.state.Quiz = nil
		c.enterStartLocked()
		return nil
	})
}

// Restart leaves the result screen for a new run.
func (c *Controller) Restart() error {
	return c.update(func() error {
		if c.state.Session == nil {
			return c.fail(domain.ErrNotAuthenticated)
		}
		if err := c.onScreenLocked(ScreenResult); err != nil {
			return err
		}
		c.state.Result = nil
		c.enterStartLocked()
		return nil
	})
}

// History lists the user's recorded results, newest first.
func (c *Controller) History(ctx context.Context, limit int) ([]domain.Result, error) {
	sess, ok := c.Session()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if c.results == nil {
		return nil, nil
	}
	return c.results.ListResults(ctx, sess.Username, limit)
}

// endLocked stops the countdown and moves to Result. The caller records the
// returned result once the lock is released.
func (c *Controller) endLocked(timedOut bool) *domain.Result {
	c.stopCountdownLocked()
	q := c.state.Quiz
	total := len(q.Questions)
	result := &domain.Result{
		ID:          uuid.NewString(),
		DisplayName: q.DisplayName,
		Course:      q.Course,
		Score:       q.Score,
		Total:       total,
		Percentage:  Percentage(q.Score, total),
		TimedOut:    timedOut,
		FinishedAt:  c.now(),
	}
	if c.state.Session != nil {
		result.Username = c.state.Session.Username
	}
	c.state.Result = result
	c.state.Quiz = nil
	c.show(ScreenResult)
	return result
}

func (c *Controller) record(ctx context.Context, result *domain.Result) {
	if result == nil || c.results == nil {
		return
	}
	if err := c.results.SaveResult(ctx, *result); err != nil {
		c.log.Error("save result", "id", result.ID, "err", err)
	}
}

func (c *Controller) startCountdownLocked() {
	c.countdownGen++
	gen := c.countdownGen
	c.stopCountdown = c.scheduler.Every(tick, func() { c.countdown(gen) })
}

func (c *Controller) stopCountdownLocked() {
	if c.stopCountdown != nil {
		c.stopCountdown()
		c.stopCountdown = nil
	}
	c.countdownGen++
}

// countdown is one timer tick; ticks from a stopped countdown are ignored.
func (c *Controller) countdown(gen int) {
	var finished *domain.Result
	c.mu.Lock()
	if gen != c.countdownGen || c.state.Quiz == nil {
		c.mu.Unlock()
		return
	}
	q := c.state.Quiz
	q.Remaining -= tick
	if q.Remaining <= 0 {
		q.Remaining = 0
		c.log.Info("time is up", "course", q.Course)
		finished = c.endLocked(true)
	}
	c.renderLocked()
	c.mu.Unlock()

	c.record(context.Background(), finished)
}

func isQuizError(err error) bool {
	return errors.Is(err, domain.ErrNoQuiz) || errors.Is(err, domain.ErrAlreadyAnswered) ||
		errors.Is(err, domain.ErrWrongScreen)
}
