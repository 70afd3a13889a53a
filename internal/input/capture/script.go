package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/keymacro/internal/input/key"
)

// scriptStep is one entry of a YAML key log. Exactly one of Key and Text
// is set. Phase is "down", "up" or empty for a tap.
type scriptStep struct {
	Key   string `yaml:"key,omitempty"`
	Phase string `yaml:"phase,omitempty"`
	Text  string `yaml:"text,omitempty"`
}

type scriptFile struct {
	Events []scriptStep `yaml:"events"`
}

// scriptInterval spaces the timestamps of replayed events.
const scriptInterval = time.Millisecond

// Script is a Source that replays a fixed list of events.
type Script struct {
	events []key.Event

	mu      sync.Mutex
	running bool
	ch      chan<- key.Event
	sent    chan struct{}
}

// NewScript creates a source replaying events in order.
// The slice is copied.
func NewScript(events []key.Event) *Script {
	copied := make([]key.Event, len(events))
	copy(copied, events)
	return &Script{events: copied}
}

// LoadScript reads a YAML key log from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key log %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("parsing key log %s: %w", path, err)
	}
	return s, nil
}

// ParseScript parses a YAML key log.
func ParseScript(data []byte) (*Script, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	base := time.Now()
	var events []key.Event
	add := func(c key.Code, p key.Phase) {
		events = append(events, key.Event{
			Code:      c,
			Phase:     p,
			Timestamp: base.Add(time.Duration(len(events)) * scriptInterval),
		})
	}

	for i, step := range file.Events {
		switch {
		case step.Text != "" && step.Key != "":
			return nil, fmt.Errorf("event %d: key and text are exclusive", i)
		case step.Text != "":
			if step.Phase != "" {
				return nil, fmt.Errorf("event %d: text cannot have a phase", i)
			}
			for _, r := range step.Text {
				c := key.Char(r)
				add(c, key.PhaseDown)
				add(c, key.PhaseUp)
			}
		case step.Key != "":
			c, err := key.ParseCode(step.Key)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			if step.Phase == "" || step.Phase == "tap" {
				add(c, key.PhaseDown)
				add(c, key.PhaseUp)
				continue
			}
			p, err := key.ParsePhase(step.Phase)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			add(c, p)
		default:
			return nil, fmt.Errorf("event %d: needs key or text", i)
		}
	}

	return &Script{events: events}, nil
}

// Len returns the number of events the script replays.
func (s *Script) Len() int {
	return len(s.events)
}

// Start replays the events on a background goroutine.
func (s *Script) Start(events chan<- key.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.ch = events
	s.sent = make(chan struct{})

	go func(sent chan<- struct{}) {
		defer close(sent)
		for _, ev := range s.events {
			events <- ev
		}
	}(s.sent)
	return nil
}

// Done is closed once every event has been delivered.
// It returns nil before the first Start.
func (s *Script) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Stop waits for the remaining events to be delivered and closes the
// events channel.
func (s *Script) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}
	<-s.sent
	close(s.ch)
	s.ch = nil
	s.running = false
	return nil
}

// ErrEmptyScript is returned by Validate for a script with no events.
var ErrEmptyScript = errors.New("key log has no events")

// Validate reports ErrEmptyScript for a script with nothing to replay.
func (s *Script) Validate() error {
	if len(s.events) == 0 {
		return ErrEmptyScript
	}
	return nil
}
