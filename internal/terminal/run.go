package terminal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
)

// Run reads commands from in until quit, EOF or ctx is done.
func Run(ctx context.Context, ctrl *app.Controller, in io.Reader, console *Console) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := execute(ctx, ctrl, line, console); quit {
				return nil
			}
		}
	}
}

func execute(ctx context.Context, ctrl *app.Controller, line string, console *Console) bool {
	cmd, err := Parse(line, ctrl.View())
	switch {
	case errors.Is(err, errEmpty):
		return false
	case err != nil:
		console.Warnf("%v", err)
		return false
	case cmd.Quit:
		return true
	case cmd.Clock:
		if q := ctrl.View().Question; q != nil {
			console.Printf("time left %s", q.Remaining)
		} else {
			console.Warnf("no quiz running")
		}
		return false
	}

	var raw json.RawMessage
	if cmd.Payload != nil {
		if raw, err = json.Marshal(cmd.Payload); err != nil {
			console.Warnf("%v", err)
			return false
		}
	}
	_, err = ctrl.Dispatch(ctx, cmd.Action, raw)
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered):
		console.Warnf("already answered, move on with next")
	case errors.Is(err, domain.ErrNoQuiz), errors.Is(err, domain.ErrOptionNotFound), errors.Is(err, domain.ErrWrongScreen):
		console.Warnf("%v", err)
	}
	return false
}
