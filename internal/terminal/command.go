package terminal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quiz-client/internal/app"
	"quiz-client/internal/view"
)

var errEmpty = errors.New("empty command")

// Command is one parsed console line.
type Command struct {
	Action  app.Action
	Payload any
	Quit    bool
	Clock   bool
}

// Parse maps line to a controller action. v is the view the user is looking
// at; it decides what "back" and option numbers refer to.
func Parse(line string, v view.View) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errEmpty
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	if n, err := strconv.Atoi(name); err == nil {
		return selectOption(n, v)
	}

	switch name {
	case "quit", "exit":
		return Command{Quit: true}, nil
	case "time":
		return Command{Clock: true}, nil
	case "login":
		return credentials(app.ActionLogin, args, "login <user> <password>")
	case "register":
		if len(args) == 0 {
			return Command{Action: app.ActionShowRegister}, nil
		}
		return credentials(app.ActionRegister, args, "register <user> <password>")
	case "back":
		if v.Screen == "register" {
			return Command{Action: app.ActionShowLogin}, nil
		}
		return Command{Action: app.ActionBack}, nil
	case "redeem":
		if len(args) != 2 {
			return Command{}, usage("redeem <code> <months>")
		}
		months, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, usage("redeem <code> <months>")
		}
		return Command{Action: app.ActionRedeem, Payload: app.RedeemPayload{Code: args[0], Months: months}}, nil
	case "free":
		return Command{Action: app.ActionContinueFree}, nil
	case "logout":
		return Command{Action: app.ActionLogout}, nil
	case "start":
		return start(args)
	case "next", "finish":
		return Command{Action: app.ActionNext}, nil
	case "end":
		return Command{Action: app.ActionEnd}, nil
	case "cancel":
		return Command{Action: app.ActionCancel}, nil
	case "again", "restart":
		return Command{Action: app.ActionRestart}, nil
	case "ok", "dismiss":
		if v.Alert != "" {
			return Command{Action: app.ActionDismissAlert}, nil
		}
		return Command{Action: app.ActionDismissNotice}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", name)
}

func usage(form string) error {
	return fmt.Errorf("usage: %s", form)
}

func credentials(action app.Action, args []string, form string) (Command, error) {
	if len(args) != 2 {
		return Command{}, usage(form)
	}
	return Command{Action: action, Payload: app.CredentialsPayload{Username: args[0], Password: args[1]}}, nil
}

func start(args []string) (Command, error) {
	const form = "start <name> <course> [count]"
	if len(args) < 2 || len(args) > 3 {
		return Command{}, usage(form)
	}
	p := app.StartPayload{DisplayName: args[0], Course: args[1]}
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return Command{}, usage(form)
		}
		p.Count = n
	}
	return Command{Action: app.ActionStart, Payload: p}, nil
}

func selectOption(n int, v view.View) (Command, error) {
	if v.Question == nil {
		return Command{}, errors.New("no question to answer")
	}
	if n < 1 || n > len(v.Question.Options) {
		return Command{}, fmt.Errorf("choose an option between 1 and %d", len(v.Question.Options))
	}
	return Command{Action: app.ActionSelect, Payload: app.SelectPayload{Option: v.Question.Options[n-1].Text}}, nil
}
