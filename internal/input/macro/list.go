package macro

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/keymacro/internal/input/key"
)

// LineID identifies a line for the lifetime of its List, independent of
// the line's position. The zero LineID is never assigned.
type LineID uint64

// Line is a snapshot of one list entry.
type Line struct {
	ID       LineID
	Position int
	Action   Action
}

// entry is the stored form of a line. Its position is its slice index.
type entry struct {
	id     LineID
	action Action
}

// List is the ordered, editable sequence of actions of one macro.
// List order is playback order.
//
// Positions are always the dense range 0..Len()-1 in list order. Every
// mutation updates the id index inside the same critical section, so
// readers never see a stale position.
type List struct {
	mu       sync.Mutex
	lines    []entry
	index    map[LineID]int
	lastID   LineID
	observer Observer
}

// NewList creates an empty list.
func NewList() *List {
	return &List{
		index: make(map[LineID]int),
	}
}

// SetObserver installs the observer notified of structural changes.
// A nil observer disables notifications.
func (l *List) SetObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = o
}

// reindex rewrites index entries for lines[from:].
// Must be called with the lock held.
func (l *List) reindex(from int) {
	for i := from; i < len(l.lines); i++ {
		l.index[l.lines[i].id] = i
	}
}

// appendLocked adds a line at the end. Must be called with the lock held.
func (l *List) appendLocked(a Action) (LineID, int) {
	l.lastID++
	id := l.lastID
	pos := len(l.lines)
	l.lines = append(l.lines, entry{id: id, action: clone(a)})
	l.index[id] = pos
	return id, pos
}

// Append adds an action at the end of the list and returns its id.
// The new line's position is the previous length.
func (l *List) Append(a Action) LineID {
	l.mu.Lock()
	id, pos := l.appendLocked(a)
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs.LineInserted(id, pos)
	}
	return id
}

// AppendAll appends actions in order, as Append would one by one.
// It returns the new ids in the same order.
func (l *List) AppendAll(actions []Action) []LineID {
	if len(actions) == 0 {
		return nil
	}

	l.mu.Lock()
	ids := make([]LineID, len(actions))
	first := len(l.lines)
	for i, a := range actions {
		ids[i], _ = l.appendLocked(a)
	}
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		for i, id := range ids {
			obs.LineInserted(id, first+i)
		}
	}
	return ids
}

// Remove deletes a line. Lines after it move up by one position.
// Returns ErrLineNotFound, leaving the list unchanged, if id is not present.
func (l *List) Remove(id LineID) error {
	l.mu.Lock()
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("remove line %d: %w", id, ErrLineNotFound)
	}
	l.lines = slices.Delete(l.lines, i, i+1)
	delete(l.index, id)
	l.reindex(i)
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs.LineRemoved(id)
	}
	return nil
}

// Move swaps a line with the line offset positions away. Only those two
// lines change position. An offset of 0 is a no-op. An offset that would
// leave the list returns ErrOffsetOutOfRange and changes nothing.
func (l *List) Move(id LineID, offset int) error {
	l.mu.Lock()
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("move line %d: %w", id, ErrLineNotFound)
	}
	if offset == 0 {
		l.mu.Unlock()
		return nil
	}
	j := i + offset
	if j < 0 || j >= len(l.lines) {
		l.mu.Unlock()
		return fmt.Errorf("move line %d by %d from position %d: %w", id, offset, i, ErrOffsetOutOfRange)
	}

	other := l.lines[j].id
	l.lines[i], l.lines[j] = l.lines[j], l.lines[i]
	l.index[id] = j
	l.index[other] = i
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs.LinesReordered(id, other, j, i)
	}
	return nil
}

// MoveUp moves a line one position towards the start.
func (l *List) MoveUp(id LineID) error {
	return l.Move(id, -1)
}

// MoveDown moves a line one position towards the end.
func (l *List) MoveDown(id LineID) error {
	return l.Move(id, 1)
}

// ChangeKind replaces a line's action with the default action of kind,
// keeping the line's id and position. The previous payload is discarded,
// even when kind equals the current kind.
func (l *List) ChangeKind(id LineID, kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("change line %d: %w: %d", id, ErrUnknownKind, kind)
	}

	l.mu.Lock()
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("change line %d: %w", id, ErrLineNotFound)
	}
	l.lines[i].action = New(kind)
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs.LineVariantChanged(id, kind)
	}
	return nil
}

// SetText replaces the content of a Text line.
func (l *List) SetText(id LineID, content string) error {
	return l.update(id, "set text", func(a Action) (Action, bool) {
		if _, ok := a.(Text); !ok {
			return nil, false
		}
		return Text{Content: content}, true
	})
}

// AppendKey adds a key to a KeyTap line, or sets the key of a KeyDown or
// KeyUp line. Text lines return ErrKindMismatch.
func (l *List) AppendKey(id LineID, code key.Code) error {
	return l.update(id, "append key", func(a Action) (Action, bool) {
		switch v := a.(type) {
		case KeyTap:
			return KeyTap{Keys: v.Keys.Append(code)}, true
		case KeyDown:
			return KeyDown{Key: code}, true
		case KeyUp:
			return KeyUp{Key: code}, true
		default:
			return nil, false
		}
	})
}

// update applies an in-place payload edit.
func (l *List) update(id LineID, op string, edit func(Action) (Action, bool)) error {
	l.mu.Lock()
	i, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%s on line %d: %w", op, id, ErrLineNotFound)
	}
	next, ok := edit(l.lines[i].action)
	if !ok {
		kind := l.lines[i].action.Kind()
		l.mu.Unlock()
		return fmt.Errorf("%s on %s line %d: %w", op, kind, id, ErrKindMismatch)
	}
	l.lines[i].action = next
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs.LineUpdated(id)
	}
	return nil
}

// Clear removes every line, reporting each removal in list order.
// Ids are not reused afterwards.
func (l *List) Clear() {
	l.mu.Lock()
	removed := make([]LineID, len(l.lines))
	for i, e := range l.lines {
		removed[i] = e.id
	}
	l.lines = nil
	l.index = make(map[LineID]int)
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		for _, id := range removed {
			obs.LineRemoved(id)
		}
	}
}

// Len returns the number of lines.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Lines returns a snapshot of all lines in order.
func (l *List) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Line, len(l.lines))
	for i, e := range l.lines {
		result[i] = Line{ID: e.id, Position: i, Action: clone(e.action)}
	}
	return result
}

// Line returns a snapshot of one line.
func (l *List) Line(id LineID) (Line, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return Line{}, false
	}
	return Line{ID: id, Position: i, Action: clone(l.lines[i].action)}, true
}

// Position returns the current position of a line.
func (l *List) Position(id LineID) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id]
	return i, ok
}

// At returns the id of the line at position.
func (l *List) At(position int) (LineID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if position < 0 || position >= len(l.lines) {
		return 0, false
	}
	return l.lines[position].id, true
}

// Actions returns a copy of the actions in playback order.
func (l *List) Actions() []Action {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Action, len(l.lines))
	for i, e := range l.lines {
		result[i] = clone(e.action)
	}
	return result
}

// Encode hands a read-only copy of the actions to enc.
func (l *List) Encode(enc Encoder) ([]byte, error) {
	return enc.Encode(l.Actions())
}
