package app

import (
	"context"
	"fmt"
	"strings"

	"quiz-client/internal/domain"
)

// Register creates an account; on success the Login screen shows the server message.
func (c *Controller) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := c.screenCheck(ScreenRegister); err != nil {
		return err
	}
	if username == "" || password == "" {
		return c.update(func() error {
			c.state.RegisterUsername = username
			return c.fail(invalid("Please enter a username and password."))
		})
	}

	msg, err := c.api.Register(ctx, username, password)
	return c.update(func() error {
		if serr := c.onScreenLocked(ScreenRegister); serr != nil {
			return serr
		}
		if err != nil {
			c.state.RegisterUsername = username
			return c.fail(err)
		}
		c.state.RegisterUsername = ""
		c.state.LoginUsername = ""
		c.show(ScreenLogin)
		c.state.Message = msg
		return nil
	})
}

// Login authenticates, persists the session and routes by subscription status.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := c.screenCheck(ScreenLogin); err != nil {
		return err
	}
	if username == "" || password == "" {
		return c.update(func() error {
			c.state.LoginUsername = username
			return c.fail(invalid("Please enter a username and password."))
		})
	}

	res, err := c.api.Login(ctx, username, password, "")
	if err != nil {
		c.log.Warn("login failed", "user", username, "err", err)
		return c.update(func() error {
			if c.state.Screen != ScreenLogin {
				return err
			}
			c.state.LoginUsername = username
			return c.fail(err)
		})
	}

	err = c.update(func() error {
		if err := c.onScreenLocked(ScreenLogin); err != nil {
			return err
		}
		c.state.Session = &domain.Session{
			Username:     username,
			SessionToken: res.SessionToken,
			IsSubscribed: res.IsSubscribed,
		}
		c.state.LoginUsername = ""
		c.routeAfterLoginLocked()
		c.showNoticeLocked(fmt.Sprintf("Welcome, %s!", username))
		return nil
	})
	if err != nil {
		return err
	}
	c.persist(ctx, username, res.SessionToken)
	return nil
}

// RedeemAccessCode upgrades the session to the subscribed tier.
func (c *Controller) RedeemAccessCode(ctx context.Context, code string, months int) error {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	sess := c.state.Session
	var verr error
	switch {
	case sess == nil:
		verr = domain.ErrNotAuthenticated
	case c.state.Screen != ScreenSubscription:
		err := c.onScreenLocked(ScreenSubscription)
		c.mu.Unlock()
		return err
	case code == "":
		verr = invalid("Please enter an access code.")
	case months <= 0:
		verr = invalid("Please choose a subscription length.")
	}
	if verr != nil {
		err := c.fail(verr)
		c.renderLocked()
		c.mu.Unlock()
		return err
	}
	username, token := sess.Username, sess.SessionToken
	c.mu.Unlock()

	res, err := c.api.VerifyAccess(ctx, username, token, code, months)
	return c.update(func() error {
		if c.state.Session != sess {
			return domain.ErrNotAuthenticated
		}
		if serr := c.onScreenLocked(ScreenSubscription); serr != nil {
			return serr
		}
		if err != nil {
			return c.fail(err)
		}
		sess.IsSubscribed = res.IsSubscribed
		c.enterStartLocked()
		c.state.Message = res.Message
		return nil
	})
}

// ProceedAsFreeUser switches to the free tier without asking the backend.
func (c *Controller) ProceedAsFreeUser() error {
	return c.update(func() error {
		if c.state.Session == nil {
			return c.fail(domain.ErrNotAuthenticated)
		}
		if err := c.onScreenLocked(ScreenSubscription); err != nil {
			return err
		}
		c.state.Session.IsSubscribed = false
		c.enterStartLocked()
		return nil
	})
}

// Logout tells the backend (best effort) and always tears down the local session.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	sess := c.state.Session
	c.mu.Unlock()

	if sess != nil {
		if err := c.api.Logout(ctx, sess.Username, sess.SessionToken); err != nil {
			c.log.Warn("logout failed", "user", sess.Username, "err", err)
		}
	}
	if err := c.credentials.Clear(ctx, c.clientID); err != nil {
		c.log.Error("clear credentials", "err", err)
	}

	return c.update(func() error {
		c.stopCountdownLocked()
		c.stopNoticeLocked()
		c.state.Session = nil
		c.state.Quiz = nil
		c.state.Result = nil
		c.state.Start = StartForm{}
		c.state.LoginUsername = ""
		c.state.RegisterUsername = ""
		c.show(ScreenLogin)
		return nil
	})
}

// ShowRegister and ShowLogin switch between the two anonymous screens.
func (c *Controller) ShowRegister() error {
	return c.update(func() error {
		if c.state.Session != nil {
			return nil
		}
		c.show(ScreenRegister)
		return nil
	})
}

func (c *Controller) ShowLogin() error {
	return c.update(func() error {
		if c.state.Session != nil {
			return nil
		}
		c.show(ScreenLogin)
		return nil
	})
}

// DismissNotice hides the welcome notice before its timer does.
func (c *Controller) DismissNotice() error {
	return c.update(func() error {
		c.stopNoticeLocked()
		return nil
	})
}

func (c *Controller) routeAfterLoginLocked() {
	if c.state.Session.IsSubscribed {
		c.enterStartLocked()
		return
	}
	c.show(ScreenSubscription)
}

// enterStartLocked re-derives the count options from the current tier. Any run
// still attached is dropped together with its countdown.
func (c *Controller) enterStartLocked() {
	c.stopCountdownLocked()
	c.state.Quiz = nil
	counts := c.freeCounts
	if c.state.Session != nil && c.state.Session.IsSubscribed {
		counts = c.subscribedCounts
	}
	c.state.Start.CountOptions = append([]int(nil), counts...)
	c.show(ScreenStart)
}

// screenCheck is onScreenLocked for callers not holding the lock.
func (c *Controller) screenCheck(s Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onScreenLocked(s)
}

func (c *Controller) showNoticeLocked(text string) {
	c.stopNoticeLocked()
	c.state.Notice = text
	c.noticeGen++
	gen := c.noticeGen
	c.stopNotice = c.scheduler.After(c.noticeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.noticeGen {
			return
		}
		c.state.Notice = ""
		c.stopNotice = nil
		c.renderLocked()
	})
}

func (c *Controller) stopNoticeLocked() {
	if c.stopNotice != nil {
		c.stopNotice()
		c.stopNotice = nil
	}
	c.noticeGen++
	c.state.Notice = ""
}
