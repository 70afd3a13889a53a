package macro

import (
	"strings"

	"github.com/dshills/keymacro/internal/input/key"
)

// optimizeConfig holds the merge policy used by Optimize.
type optimizeConfig struct {
	textRuns  bool
	mergeTaps bool
}

// OptimizeOption adjusts the merge policy of Optimize.
type OptimizeOption func(*optimizeConfig)

// WithTextRuns controls whether taps of printable keys are merged into Text
// actions (the default). When disabled they are emitted as KeyTap entries.
func WithTextRuns(enabled bool) OptimizeOption {
	return func(c *optimizeConfig) {
		c.textRuns = enabled
	}
}

// WithTapMerging controls whether consecutive non-printable taps share one
// KeyTap action (the default). When disabled every tap gets its own action.
func WithTapMerging(enabled bool) OptimizeOption {
	return func(c *optimizeConfig) {
		c.mergeTaps = enabled
	}
}

// Optimize compiles the key events of one recording into a minimal action
// sequence that reproduces the same key-down/key-up effects in order.
//
// A key-down immediately followed by its own key-up is a tap. Taps of
// printable keys extend the current Text run; taps of other keys extend the
// current KeyTap. Any other key-down or key-up (a key held while another key
// goes down) ends the pending run and is emitted as KeyDown or KeyUp, so
// Shift held around "a" compiles to [Down Shift, Text "a", Up Shift]. A
// key-up for a key that was never pressed during the recording is dropped.
//
// Optimize does not modify or retain events. Empty input yields no actions.
func Optimize(events []key.Event, opts ...OptimizeOption) []Action {
	cfg := optimizeConfig{textRuns: true, mergeTaps: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &actionBuilder{cfg: cfg}
	held := make(map[key.Code]int)

	for i := 0; i < len(events); i++ {
		ev := events[i]

		if ev.IsDown() {
			if i+1 < len(events) && events[i+1].Releases(ev) {
				b.tap(ev.Code)
				i++
				continue
			}
			held[ev.Code]++
			b.emit(KeyDown{Key: ev.Code})
			continue
		}

		if held[ev.Code] == 0 {
			continue
		}
		held[ev.Code]--
		b.emit(KeyUp{Key: ev.Code})
	}

	return b.finish()
}

// actionBuilder accumulates the pending text or tap run.
// At most one of text and taps is non-empty at any time.
type actionBuilder struct {
	cfg  optimizeConfig
	out  []Action
	text strings.Builder
	taps key.Sequence
}

func (b *actionBuilder) tap(code key.Code) {
	if r, ok := code.Printable(); ok && b.cfg.textRuns {
		b.flushTaps()
		b.text.WriteRune(r)
		return
	}

	b.flushText()
	if !b.cfg.mergeTaps {
		b.out = append(b.out, KeyTap{Keys: key.Sequence{code}})
		return
	}
	b.taps = append(b.taps, code)
}

func (b *actionBuilder) emit(a Action) {
	b.flushText()
	b.flushTaps()
	b.out = append(b.out, a)
}

func (b *actionBuilder) flushText() {
	if b.text.Len() == 0 {
		return
	}
	b.out = append(b.out, Text{Content: b.text.String()})
	b.text.Reset()
}

func (b *actionBuilder) flushTaps() {
	if len(b.taps) == 0 {
		return
	}
	b.out = append(b.out, KeyTap{Keys: b.taps})
	b.taps = nil
}

func (b *actionBuilder) finish() []Action {
	b.flushText()
	b.flushTaps()
	return b.out
}
