package app

import "quiz-client/internal/guard"

// EnableGuard starts the dev-tools probe. Only front-ends that report window
// metrics should enable it. The probe is advisory and never touches the session.
func (c *Controller) EnableGuard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopProbe != nil {
		return
	}
	c.stopProbe = c.scheduler.Every(c.guardInterval, c.probe)
}

// ReportMetrics stores the latest window metrics for the next probe.
func (c *Controller) ReportMetrics(m guard.Metrics) {
	c.metrics.Set(m)
}

// DismissAlert hides the dev-tools alert.
func (c *Controller) DismissAlert() error {
	return c.update(func() error {
		c.state.Alert = ""
		return nil
	})
}

func (c *Controller) probe() {
	m, ok := c.metrics.Metrics()
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detector.Observe(m) {
		c.log.Info("developer tools detected", "screen", c.state.Screen)
		c.state.Alert = devToolsAlert
		c.renderLocked()
		return
	}
	if !c.detector.Open() && c.state.Alert != "" {
		c.state.Alert = ""
		c.renderLocked()
	}
}
