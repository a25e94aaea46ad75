// Package guard holds the anti-inspection deterrents of the web front-end.
// None of this is an access control: a user can bypass every check.
package guard

import (
	"strings"
	"sync"
)

// DefaultThreshold is the outer-inner window delta, in pixels, treated as a docked panel.
const DefaultThreshold = 160

// KeyEvent is a key press as reported by the page.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Meta  bool   `json:"meta"`
}

var shortcuts = []KeyEvent{
	{Key: "I", Ctrl: true, Shift: true},
	{Key: "J", Ctrl: true, Shift: true},
	{Key: "C", Ctrl: true, Shift: true},
	{Key: "I", Meta: true, Alt: true},
	{Key: "J", Meta: true, Alt: true},
	{Key: "C", Meta: true, Alt: true},
	{Key: "U", Ctrl: true},
	{Key: "U", Meta: true},
}

// Shortcuts lists the blocked combinations; F12 is blocked with any modifiers.
func Shortcuts() []KeyEvent {
	return append([]KeyEvent{{Key: "F12"}}, shortcuts...)
}

// BlockedKey reports whether k is a known developer-tools shortcut.
func BlockedKey(k KeyEvent) bool {
	key := strings.ToUpper(k.Key)
	if key == "F12" {
		return true
	}
	for _, s := range shortcuts {
		if s.Key == key && s.Ctrl == k.Ctrl && s.Shift == k.Shift && s.Alt == k.Alt && s.Meta == k.Meta {
			return true
		}
	}
	return false
}

// Metrics are window dimensions reported by the page.
type Metrics struct {
	OuterWidth  int `json:"outerWidth"`
	OuterHeight int `json:"outerHeight"`
	InnerWidth  int `json:"innerWidth"`
	InnerHeight int `json:"innerHeight"`
}

// Detector flags a docked developer panel from window metrics.
type Detector struct {
	threshold int
	open      bool
}

func NewDetector(threshold int) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Observe returns true only on a closed->open transition.
func (d *Detector) Observe(m Metrics) bool {
	open := m.OuterWidth-m.InnerWidth > d.threshold || m.OuterHeight-m.InnerHeight > d.threshold
	opened := open && !d.open
	d.open = open
	return opened
}

// Open reports the last observed state.
func (d *Detector) Open() bool {
	return d.open
}

// MetricsBox keeps the latest metrics reported by a page.
type MetricsBox struct {
	mu   sync.Mutex
	m    Metrics
	seen bool
}

func (b *MetricsBox) Set(m Metrics) {
	b.mu.Lock()
	b.m = m
	b.seen = true
	b.mu.Unlock()
}

// Metrics returns the latest metrics and whether any were reported.
func (b *MetricsBox) Metrics() (Metrics, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m, b.seen
}
