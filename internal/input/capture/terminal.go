package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymacro/internal/input/key"
)

// ErrAlreadyRunning indicates Start was called on a running source.
var ErrAlreadyRunning = errors.New("source already running")

// ErrNotRunning indicates Stop was called on a source that is not running.
var ErrNotRunning = errors.New("source not running")

// TerminalOption configures a Terminal source.
type TerminalOption func(*Terminal)

// WithStopKey sets a chord that is swallowed instead of recorded and
// reported on StopRequested.
func WithStopKey(chord key.Chord) TerminalOption {
	return func(t *Terminal) {
		t.stopKey = chord
		t.hasStop = true
	}
}

// Terminal captures key presses from a tcell screen.
// The screen must already be initialized; Terminal never finalizes it.
type Terminal struct {
	screen  tcell.Screen
	stopKey key.Chord
	hasStop bool
	stopReq chan struct{}

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewTerminal creates a source reading from screen.
func NewTerminal(screen tcell.Screen, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		screen:  screen,
		stopReq: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StopRequested receives a value each time the stop key is pressed.
func (t *Terminal) StopRequested() <-chan struct{} {
	return t.stopReq
}

// Start begins polling the screen and delivering events.
func (t *Terminal) Start(events chan<- key.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrAlreadyRunning
	}
	t.running = true
	t.quit = make(chan struct{})
	t.done = make(chan struct{})

	go t.poll(events, t.quit, t.done)
	return nil
}

// Stop ends polling. The events channel is closed once the poll loop has
// delivered its last event; Stop returns after that.
func (t *Terminal) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return ErrNotRunning
	}

	close(t.quit)
	if err := t.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		return fmt.Errorf("wake terminal poller: %w", err)
	}
	<-t.done
	t.running = false
	return nil
}

func (t *Terminal) poll(events chan<- key.Event, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(events)

	for {
		select {
		case <-quit:
			return
		default:
		}

		ev := t.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}

		kev, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}

		mods, code, ok := convertKeyEvent(kev)
		if !ok {
			continue
		}
		if t.hasStop && t.stopKey.Matches(mods, code) {
			select {
			case t.stopReq <- struct{}{}:
			default:
			}
			continue
		}

		for _, e := range pressEvents(mods, code, kev.When()) {
			events <- e
		}
	}
}

// pressEvents expands one terminal key press into down/up transitions,
// with modifiers pressed first and released last.
func pressEvents(mods key.Modifier, code key.Code, when time.Time) []key.Event {
	held := mods.Codes()
	out := make([]key.Event, 0, 2*len(held)+2)
	for _, m := range held {
		out = append(out, key.Event{Code: m, Phase: key.PhaseDown, Timestamp: when})
	}
	out = append(out,
		key.Event{Code: code, Phase: key.PhaseDown, Timestamp: when},
		key.Event{Code: code, Phase: key.PhaseUp, Timestamp: when},
	)
	for i := len(held) - 1; i >= 0; i-- {
		out = append(out, key.Event{Code: held[i], Phase: key.PhaseUp, Timestamp: when})
	}
	return out
}

// tcellKeys maps tcell named keys to key codes.
var tcellKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyPause:      key.KeyPause,
	tcell.KeyPrint:      key.KeyPrintScreen,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// ctrlPunct maps the control codes above Ctrl+Z to their punctuation key.
var ctrlPunct = map[tcell.Key]rune{
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// convertKeyEvent converts a tcell key event into the held modifiers and
// the pressed key. It returns false for keys with no code.
func convertKeyEvent(ev *tcell.EventKey) (key.Modifier, key.Code, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return mods.Without(key.ModShift), key.Named(key.KeySpace), true
		}
		// Shift is already reflected in the character.
		return mods.Without(key.ModShift), key.Char(r), true
	}

	if named, ok := tcellKeys[k]; ok {
		// Backtab is Shift+Tab.
		if k == tcell.KeyBacktab {
			mods = mods.With(key.ModShift)
		}
		return mods, key.Named(named), true
	}

	switch {
	case k == tcell.KeyCtrlSpace:
		return mods.With(key.ModCtrl), key.Named(key.KeySpace), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return mods.With(key.ModCtrl), key.Char(rune('a' + (k - tcell.KeyCtrlA))), true
	}
	if r, ok := ctrlPunct[k]; ok {
		return mods.With(key.ModCtrl), key.Char(r), true
	}

	return key.ModNone, key.Code{}, false
}

// convertMod converts tcell modifier mask to key.Modifier.
func convertMod(m tcell.ModMask) key.Modifier {
	var mod key.Modifier
	if m&tcell.ModShift != 0 {
		mod = mod.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mod = mod.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mod = mod.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mod = mod.With(key.ModMeta)
	}
	return mod
}
