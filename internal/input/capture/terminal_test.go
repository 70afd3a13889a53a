package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymacro/internal/input/key"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	return screen
}

func collect(t *testing.T, ch <-chan key.Event) []key.Event {
	t.Helper()
	var out []key.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("events channel was not closed")
			return nil
		}
	}
}

func assertEvents(t *testing.T, got []key.Event, want []key.Event) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func waitStop(t *testing.T, term *Terminal) {
	t.Helper()
	select {
	case <-term.StopRequested():
	case <-time.After(2 * time.Second):
		t.Fatal("stop key was not reported")
	}
}

func TestTerminalCapturesKeys(t *testing.T) {
	screen := newSimScreen(t)
	stop, _ := key.ParseChord("Ctrl+]")
	term := NewTerminal(screen, WithStopKey(stop))

	ch := make(chan key.Event, 64)
	if err := term.Start(ch); err != nil {
		t.Fatalf("Start: %v", err)
	}

	screen.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyCtrlRightSq, 0, tcell.ModCtrl)
	waitStop(t, term)

	if err := term.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	c := key.Char('c')
	assertEvents(t, collect(t, ch), []key.Event{
		key.Down(key.Char('h')), key.Up(key.Char('h')),
		key.Down(key.Named(key.KeyEnter)), key.Up(key.Named(key.KeyEnter)),
		key.Down(key.Ctrl), key.Down(c), key.Up(c), key.Up(key.Ctrl),
	})
}

func TestTerminalStopWithoutEvents(t *testing.T) {
	screen := newSimScreen(t)
	term := NewTerminal(screen)

	ch := make(chan key.Event, 8)
	if err := term.Start(ch); err != nil {
		t.Fatal(err)
	}
	if err := term.Start(ch); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start error = %v, want ErrAlreadyRunning", err)
	}
	if err := term.Stop(); err != nil {
		t.Fatal(err)
	}
	if got := collect(t, ch); len(got) != 0 {
		t.Errorf("got events %v, want none", got)
	}
	if err := term.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop while stopped error = %v, want ErrNotRunning", err)
	}
}

func TestConvertKeyEvent(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		wantMods key.Modifier
		wantCode key.Code
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), key.ModNone, key.Char('x')},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), key.ModNone, key.Char('X')},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt), key.ModAlt, key.Char('f')},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), key.ModNone, key.Named(key.KeySpace)},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.ModNone, key.Named(key.KeyTab)},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.ModShift, key.Named(key.KeyTab)},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.ModNone, key.Named(key.KeyF5)},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), key.ModCtrl, key.Char('a')},
		{"ctrl bracket", tcell.NewEventKey(tcell.KeyCtrlRightSq, 0, tcell.ModCtrl), key.ModCtrl, key.Char(']')},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), key.ModShift, key.Named(key.KeyUp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, code, ok := convertKeyEvent(tt.ev)
			if !ok {
				t.Fatal("convertKeyEvent returned !ok")
			}
			if mods != tt.wantMods || code != tt.wantCode {
				t.Errorf("got (%v, %#v), want (%v, %#v)", mods, code, tt.wantMods, tt.wantCode)
			}
		})
	}
}

func TestPressEventsOrder(t *testing.T) {
	now := time.Now()
	got := pressEvents(key.ModCtrl|key.ModShift, key.Char('p'), now)
	p := key.Char('p')
	assertEvents(t, got, []key.Event{
		key.Down(key.Ctrl), key.Down(key.Shift), key.Down(p),
		key.Up(p), key.Up(key.Shift), key.Up(key.Ctrl),
	})
	for _, ev := range got {
		if !ev.Timestamp.Equal(now) {
			t.Errorf("timestamp = %v, want %v", ev.Timestamp, now)
		}
	}
}
