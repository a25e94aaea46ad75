package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"quiz-client/internal/domain"
	"quiz-client/internal/guard"
	"quiz-client/internal/view"
)

const devToolsAlert = "Developer tools detected. Please close them to continue the quiz."

// Options wires a Controller. API, Questions and Credentials are required; a nil Renderer renders nothing.
type Options struct {
	ClientID    string
	API         API
	Questions   QuestionRepository
	Credentials CredentialStore
	Results     ResultStore
	Renderer    Renderer
	Scheduler   Scheduler
	Logger      *slog.Logger
	Rand        *rand.Rand
	Now         func() time.Time

	FreeCounts       []int
	SubscribedCounts []int
	NoticeDelay      time.Duration
	GuardInterval    time.Duration
	GuardThreshold   int
}

// Controller owns the state of one user's client and serializes every transition.
type Controller struct {
	clientID    string
	api         API
	questions   QuestionRepository
	credentials CredentialStore
	results     ResultStore
	renderer    Renderer
	scheduler   Scheduler
	log         *slog.Logger
	rnd         *rand.Rand
	now         func() time.Time

	freeCounts       []int
	subscribedCounts []int
	noticeDelay      time.Duration
	guardInterval    time.Duration

	mu            sync.Mutex
	state         State
	countdownGen  int
	stopCountdown func()
	noticeGen     int
	stopNotice    func()
	stopProbe     func()
	detector      *guard.Detector
	metrics       guard.MetricsBox

	handlers map[Action]handler
}

func NewController(opts Options) *Controller {
	c := &Controller{
		clientID:         opts.ClientID,
		api:              opts.API,
		questions:        opts.Questions,
		credentials:      opts.Credentials,
		results:          opts.Results,
		renderer:         opts.Renderer,
		scheduler:        opts.Scheduler,
		log:              opts.Logger,
		rnd:              opts.Rand,
		now:              opts.Now,
		freeCounts:       opts.FreeCounts,
		subscribedCounts: opts.SubscribedCounts,
		noticeDelay:      opts.NoticeDelay,
		guardInterval:    opts.GuardInterval,
		detector:         guard.NewDetector(opts.GuardThreshold),
		state:            State{Screen: ScreenLogin},
	}
	if c.scheduler == nil {
		c.scheduler = RealScheduler()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.log = c.log.With("client", c.clientID)
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if len(c.freeCounts) == 0 {
		c.freeCounts = []int{15}
	}
	if len(c.subscribedCounts) == 0 {
		c.subscribedCounts = []int{15, 25, 50, 100}
	}
	if c.noticeDelay <= 0 {
		c.noticeDelay = 3 * time.Second
	}
	if c.guardInterval <= 0 {
		c.guardInterval = time.Second
	}
	c.handlers = c.routes()
	return c
}

// Initialize restores a persisted session, revalidating it with the backend.
func (c *Controller) Initialize(ctx context.Context) error {
	creds, err := c.credentials.Load(ctx, c.clientID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredentials) {
			c.log.Error("load credentials", "err", err)
		}
		return c.update(func() error {
			c.show(ScreenLogin)
			return nil
		})
	}

	res, err := c.api.Login(ctx, creds.Username, "", creds.SessionToken)
	if err != nil {
		c.log.Warn("session check failed", "user", creds.Username, "err", err)
		if clearErr := c.credentials.Clear(ctx, c.clientID); clearErr != nil {
			c.log.Error("clear credentials", "err", clearErr)
		}
		return c.update(func() error {
			c.state.Session = nil
			c.show(ScreenLogin)
			c.state.Message = "Your session has expired. Please log in again."
			return err
		})
	}

	c.persist(ctx, creds.Username, res.SessionToken)
	return c.update(func() error {
		c.state.Session = &domain.Session{
			Username:     creds.Username,
			SessionToken: res.SessionToken,
			IsSubscribed: res.IsSubscribed,
		}
		c.routeAfterLoginLocked()
		return nil
	})
}

// View returns the current render model.
func (c *Controller) View() view.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return project(&c.state)
}

// Session returns a copy of the active session.
func (c *Controller) Session() (domain.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Session == nil {
		return domain.Session{}, false
	}
	return *c.state.Session, true
}

// Close stops every timer owned by the controller.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopCountdownLocked()
	c.stopNoticeLocked()
	if c.stopProbe != nil {
		c.stopProbe()
		c.stopProbe = nil
	}
}

// update runs fn under the lock and renders afterwards.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := fn()
	c.renderLocked()
	return err
}

func (c *Controller) renderLocked() {
	if c.renderer != nil {
		c.renderer.Render(project(&c.state))
	}
}

// show activates screen s; messages never carry over between screens.
func (c *Controller) show(s Screen) {
	c.state.Screen = s
	c.state.Message = ""
}

// onScreenLocked returns ErrWrongScreen unless s is active.
func (c *Controller) onScreenLocked(s Screen) error {
	if c.state.Screen != s {
		return fmt.Errorf("%w: %s", domain.ErrWrongScreen, c.state.Screen)
	}
	return nil
}

// fail puts err into the active screen's message area and returns it.
func (c *Controller) fail(err error) error {
	c.state.Message = userMessage(err)
	return err
}

func (c *Controller) persist(ctx context.Context, username, token string) {
	err := c.credentials.Save(ctx, c.clientID, domain.Credentials{Username: username, SessionToken: token})
	if err != nil {
		c.log.Error("save credentials", "user", username, "err", err)
	}
}
