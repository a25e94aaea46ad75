package app

import (
	"context"
	"encoding/json"
	"fmt"

	"quiz-client/internal/domain"
	"quiz-client/internal/guard"
)

// Action identifies a user intent coming from any front-end.
type Action string

const (
	ActionLogin         Action = "login"
	ActionRegister      Action = "register"
	ActionShowRegister  Action = "show_register"
	ActionShowLogin     Action = "show_login"
	ActionRedeem        Action = "redeem"
	ActionContinueFree  Action = "continue_free"
	ActionLogout        Action = "logout"
	ActionStart         Action = "start"
	ActionSelect        Action = "select"
	ActionBack          Action = "back"
	ActionNext          Action = "next"
	ActionEnd           Action = "end"
	ActionCancel        Action = "cancel"
	ActionRestart       Action = "restart"
	ActionDismissNotice Action = "dismiss_notice"
	ActionDismissAlert  Action = "dismiss_alert"
	ActionContextMenu   Action = "contextmenu"
	ActionKeyDown       Action = "keydown"
	ActionViewport      Action = "viewport"
)

type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RedeemPayload struct {
	Code   string `json:"code"`
	Months int    `json:"months"`
}

type StartPayload struct {
	DisplayName string `json:"displayName"`
	Course      string `json:"course"`
	Count       int    `json:"count"`
}

type SelectPayload struct {
	Option string `json:"option"`
}

// Verdict tells the front-end whether to suppress the event it reported.
type Verdict struct {
	Action  Action `json:"action"`
	Blocked bool   `json:"blocked"`
}

type handler func(ctx context.Context, payload json.RawMessage) (Verdict, error)

// Dispatch routes action to its transition.
func (c *Controller) Dispatch(ctx context.Context, action Action, payload json.RawMessage) (Verdict, error) {
	h, ok := c.handlers[action]
	if !ok {
		return Verdict{Action: action}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	v, err := h(ctx, payload)
	v.Action = action
	if err != nil && isQuizError(err) {
		c.log.Debug("ignored quiz action", "action", action, "err", err)
	}
	return v, err
}

func (c *Controller) routes() map[Action]handler {
	return map[Action]handler{
		ActionLogin: withPayload(func(ctx context.Context, p CredentialsPayload) error {
			return c.Login(ctx, p.Username, p.Password)
		}),
		ActionRegister: withPayload(func(ctx context.Context, p CredentialsPayload) error {
			return c.Register(ctx, p.Username, p.Password)
		}),
		ActionShowRegister: local(c.ShowRegister),
		ActionShowLogin:    local(c.ShowLogin),
		ActionRedeem: withPayload(func(ctx context.Context, p RedeemPayload) error {
			return c.RedeemAccessCode(ctx, p.Code, p.Months)
		}),
		ActionContinueFree: local(c.ProceedAsFreeUser),
		ActionLogout:       noPayload(c.Logout),
		ActionStart: withPayload(func(ctx context.Context, p StartPayload) error {
			return c.Start(ctx, p.DisplayName, p.Course, p.Count)
		}),
		ActionSelect: withPayload(func(_ context.Context, p SelectPayload) error {
			return c.SelectOption(p.Option)
		}),
		ActionBack:          local(c.Back),
		ActionNext:          noPayload(c.Next),
		ActionEnd:           noPayload(c.End),
		ActionCancel:        local(c.Cancel),
		ActionRestart:       local(c.Restart),
		ActionDismissNotice: local(c.DismissNotice),
		ActionDismissAlert:  local(c.DismissAlert),
		ActionContextMenu: func(context.Context, json.RawMessage) (Verdict, error) {
			return Verdict{Blocked: true}, nil
		},
		ActionKeyDown: func(_ context.Context, raw json.RawMessage) (Verdict, error) {
			var ev guard.KeyEvent
			if err := decode(ActionKeyDown, raw, &ev); err != nil {
				return Verdict{}, err
			}
			return Verdict{Blocked: guard.BlockedKey(ev)}, nil
		},
		ActionViewport: func(_ context.Context, raw json.RawMessage) (Verdict, error) {
			var m guard.Metrics
			if err := decode(ActionViewport, raw, &m); err != nil {
				return Verdict{}, err
			}
			c.ReportMetrics(m)
			return Verdict{}, nil
		},
	}
}

func withPayload[T any](fn func(context.Context, T) error) handler {
	return func(ctx context.Context, raw json.RawMessage) (Verdict, error) {
		var p T
		if err := decode("", raw, &p); err != nil {
			return Verdict{}, err
		}
		return Verdict{}, fn(ctx, p)
	}
}

func noPayload(fn func(context.Context) error) handler {
	return func(ctx context.Context, _ json.RawMessage) (Verdict, error) {
		return Verdict{}, fn(ctx)
	}
}

func local(fn func() error) handler {
	return func(context.Context, json.RawMessage) (Verdict, error) {
		return Verdict{}, fn()
	}
}

func decode(action Action, raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		what := "payload"
		if action != "" {
			what = string(action)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidPayload, what, err)
	}
	return nil
}
