package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/keymacro/internal/config"
	"github.com/dshills/keymacro/internal/input/capture"
	"github.com/dshills/keymacro/internal/input/key"
	"github.com/dshills/keymacro/internal/input/macro"
	"github.com/dshills/keymacro/internal/input/macro/store"
)

var (
	keyA = key.Char('a')
	keyB = key.Char('b')
)

// syncBuffer is a bytes.Buffer safe for the editor's logging goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestEditor(t *testing.T, src macro.Source, opts ...Option) (*Editor, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: out, Prefix: "test"})
	cfg := config.Default()
	cfg.Storage.Documents = t.TempDir()
	e := NewEditor(cfg, src, append([]Option{WithLogger(logger)}, opts...)...)
	t.Cleanup(func() { _ = e.Close() })
	return e, out
}

func appendLine(t *testing.T, e *Editor, a macro.Action) macro.LineID {
	t.Helper()
	id, err := e.Append(a)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return id
}

func record(t *testing.T, e *Editor) []macro.LineID {
	t.Helper()
	if err := e.StartRecording(); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	ids, err := e.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	return ids
}

func actionsOf(e *Editor) []macro.Action {
	return e.List().Actions()
}

func assertPositions(t *testing.T, e *Editor) {
	t.Helper()
	for i, line := range e.Lines() {
		if line.Position != i {
			t.Fatalf("line %d at index %d has position %d", line.ID, i, line.Position)
		}
	}
}

type failingSource struct {
	err error
}

func (f failingSource) Start(chan<- key.Event) error { return f.err }
func (f failingSource) Stop() error                  { return nil }

type viewRecorder struct {
	macro.NopObserver
	mu       sync.Mutex
	inserted []macro.LineID
	removed  []macro.LineID
}

func (v *viewRecorder) LineInserted(id macro.LineID, _ int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inserted = append(v.inserted, id)
}

func (v *viewRecorder) LineRemoved(id macro.LineID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, id)
}

func TestEditorRecordCompilesText(t *testing.T) {
	src := capture.NewScript([]key.Event{key.Down(keyA), key.Up(keyA), key.Down(keyB), key.Up(keyB)})
	e, _ := newTestEditor(t, src)

	ids := record(t, e)
	if len(ids) != 1 {
		t.Fatalf("got %d new lines, want 1", len(ids))
	}
	got := actionsOf(e)
	if len(got) != 1 || !macro.Equal(got[0], macro.Text{Content: "ab"}) {
		t.Fatalf("actions = %v, want [Text ab]", got)
	}
	if !e.IsModified() {
		t.Error("recording should mark the editor modified")
	}
	if s := e.Metrics().Snapshot(); s.Recordings != 1 || s.Actions != 1 {
		t.Errorf("metrics = %+v", s)
	}
}

func TestEditorRecordCountsEvents(t *testing.T) {
	src := capture.NewScript([]key.Event{key.Down(keyA), key.Up(keyA), key.Down(keyB), key.Up(keyB)})
	e, _ := newTestEditor(t, src)

	record(t, e)
	s := e.Metrics().Snapshot()
	if s.Events != 4 {
		t.Errorf("Events = %d, want 4", s.Events)
	}
	if s.Actions != 1 {
		t.Errorf("Actions = %d, want 1", s.Actions)
	}
	if r := s.CompressionRatio(); r != 4 {
		t.Errorf("CompressionRatio() = %v, want 4", r)
	}
}

// stateView checks recording state from inside a list callback.
type stateView struct {
	macro.NopObserver
	editor    *Editor
	mu        sync.Mutex
	recording []bool
}

func (v *stateView) LineInserted(macro.LineID, int) {
	rec := v.editor.IsRecording()
	v.mu.Lock()
	v.recording = append(v.recording, rec)
	v.mu.Unlock()
}

func TestEditorViewMayQueryRecordingState(t *testing.T) {
	view := &stateView{}
	e, _ := newTestEditor(t, capture.NewScript(key.Tap(keyA)), WithObserver(view))
	view.editor = e

	if err := e.StartRecording(); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		_, err := e.StopRecording()
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("StopRecording() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("StopRecording blocked while the view queried IsRecording")
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	if len(view.recording) != 1 || view.recording[0] {
		t.Errorf("view saw recording = %v, want [false]", view.recording)
	}
}

func TestEditorRecordKeepsShiftHold(t *testing.T) {
	src := capture.NewScript([]key.Event{
		key.Down(key.Shift), key.Down(keyA), key.Up(keyA), key.Up(key.Shift),
	})
	e, _ := newTestEditor(t, src)

	record(t, e)
	got := actionsOf(e)
	if len(got) < 2 {
		t.Fatalf("actions = %v", got)
	}
	if !macro.Equal(got[0], macro.KeyDown{Key: key.Shift}) {
		t.Errorf("first action = %v, want KeyDown Shift", got[0])
	}
	if !macro.Equal(got[len(got)-1], macro.KeyUp{Key: key.Shift}) {
		t.Errorf("last action = %v, want KeyUp Shift", got[len(got)-1])
	}
}

func TestEditorEmptyRecordingChangesNothing(t *testing.T) {
	e, _ := newTestEditor(t, capture.NewScript(nil))
	e.Append(macro.Text{Content: "keep"})
	before := e.Lines()

	if ids := record(t, e); len(ids) != 0 {
		t.Fatalf("empty recording appended %v", ids)
	}
	after := e.Lines()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Errorf("lines changed: %v -> %v", before, after)
	}
}

func TestEditorStartTwice(t *testing.T) {
	src := capture.NewScript(key.Tap(keyA))
	e, _ := newTestEditor(t, src)

	if err := e.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if err := e.StartRecording(); err != nil {
		t.Fatalf("second StartRecording() error = %v", err)
	}
	ids, err := e.StopRecording()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || e.List().Len() != 1 {
		t.Errorf("got %d lines, want 1", e.List().Len())
	}
}

func TestEditorToggleRecording(t *testing.T) {
	e, _ := newTestEditor(t, capture.NewScript(key.Tap(keyB)))

	if _, err := e.ToggleRecording(); err != nil {
		t.Fatal(err)
	}
	if !e.IsRecording() {
		t.Fatal("first toggle should start recording")
	}
	ids, err := e.ToggleRecording()
	if err != nil {
		t.Fatal(err)
	}
	if e.IsRecording() || len(ids) != 1 {
		t.Errorf("second toggle should stop and append, got ids %v", ids)
	}
}

func TestEditorWithoutSource(t *testing.T) {
	e, _ := newTestEditor(t, nil)

	if err := e.StartRecording(); !errors.Is(err, ErrNoSource) {
		t.Errorf("StartRecording() error = %v, want ErrNoSource", err)
	}
	if ids, err := e.StopRecording(); ids != nil || err != nil {
		t.Errorf("StopRecording() = %v, %v; want nil, nil", ids, err)
	}
}

func TestEditorAbortIsLogged(t *testing.T) {
	e, out := newTestEditor(t, failingSource{err: errors.New("no tty")})

	err := e.StartRecording()
	if !errors.Is(err, macro.ErrCaptureFailed) {
		t.Fatalf("StartRecording() error = %v, want ErrCaptureFailed", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "record" {
		t.Errorf("error = %#v, want *OperationError for record", err)
	}
	if e.IsRecording() {
		t.Error("editor should be idle after an abort")
	}
	if !strings.Contains(out.String(), "[ERROR] test: recording aborted: no tty") {
		t.Errorf("abort not logged at error level:\n%s", out.String())
	}
	if e.Metrics().Snapshot().Aborts != 1 {
		t.Error("abort not counted")
	}
}

func TestEditorRefusedEditsAreWarnings(t *testing.T) {
	e, out := newTestEditor(t, nil)
	first := appendLine(t, e, macro.Text{Content: "x"})
	e.Append(macro.KeyTap{Keys: key.Sequence{keyA}})
	before := e.Lines()

	tests := []struct {
		name   string
		run    func() error
		want   error
		op     string
		target string
	}{
		{"remove unknown", func() error { return e.Remove(99) }, macro.ErrLineNotFound, "remove", "line 99"},
		{"move unknown", func() error { return e.Move(99, 1) }, macro.ErrLineNotFound, "move", "line 99"},
		{"move past start", func() error { return e.MoveUp(first) }, macro.ErrOffsetOutOfRange, "move", lineTarget(first)},
		{"move past end", func() error { return e.Move(first, 5) }, macro.ErrOffsetOutOfRange, "move", lineTarget(first)},
		{"change unknown", func() error { return e.ChangeKind(99, macro.KindTap) }, macro.ErrLineNotFound, "change kind", "line 99"},
		{"change invalid kind", func() error { return e.ChangeKind(first, macro.Kind(42)) }, macro.ErrUnknownKind, "change kind", lineTarget(first)},
		{"key on text", func() error { return e.AppendKey(first, keyB) }, macro.ErrKindMismatch, "append key", lineTarget(first)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var opErr *OperationError
			if !errors.As(err, &opErr) {
				t.Fatalf("error %T is not an *OperationError", err)
			}
			if opErr.Op != tt.op || opErr.Target != tt.target {
				t.Errorf("op = %q target = %q, want %q %q", opErr.Op, opErr.Target, tt.op, tt.target)
			}
		})
	}

	after := e.Lines()
	if len(after) != len(before) {
		t.Fatalf("list length changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || !macro.Equal(after[i].Action, before[i].Action) {
			t.Errorf("line %d changed: %v -> %v", i, before[i], after[i])
		}
	}
	if n := strings.Count(out.String(), "[WARN]"); n != len(tests) {
		t.Errorf("got %d warnings, want %d:\n%s", n, len(tests), out.String())
	}
	if e.Metrics().Snapshot().Rejected != uint64(len(tests)) {
		t.Error("rejected edits not counted")
	}
}

func TestEditorAddActionUnknownKind(t *testing.T) {
	e, _ := newTestEditor(t, nil)

	if _, err := e.AddAction(macro.Kind(42)); !errors.Is(err, macro.ErrUnknownKind) {
		t.Errorf("AddAction() error = %v, want ErrUnknownKind", err)
	}
	if e.List().Len() != 0 {
		t.Error("list should be unchanged")
	}
}

func TestEditorMoveSwapsNeighbours(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	var ids []macro.LineID
	for _, kind := range []macro.Kind{macro.KindText, macro.KindDown, macro.KindUp} {
		id, err := e.AddAction(kind)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	if err := e.Move(ids[1], -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	want := map[macro.LineID]int{ids[1]: 0, ids[0]: 1, ids[2]: 2}
	for id, pos := range want {
		if got, _ := e.List().Position(id); got != pos {
			t.Errorf("line %d at %d, want %d", id, got, pos)
		}
	}

	if err := e.Move(ids[2], 0); err != nil {
		t.Errorf("Move(0) error = %v", err)
	}
	if err := e.MoveDown(ids[1]); err != nil {
		t.Fatal(err)
	}
	assertPositions(t, e)
}

func TestEditorChangeKindDiscardsPayload(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	id := appendLine(t, e, macro.Text{Content: "hello"})

	if err := e.ChangeKind(id, macro.KindTap); err != nil {
		t.Fatalf("ChangeKind() error = %v", err)
	}
	line, ok := e.List().Line(id)
	if !ok {
		t.Fatal("line vanished")
	}
	tap, ok := line.Action.(macro.KeyTap)
	if !ok {
		t.Fatalf("action = %T, want KeyTap", line.Action)
	}
	if len(tap.Keys) != 0 {
		t.Errorf("keys = %v, want empty", tap.Keys)
	}
}

func TestEditorPayloadEdits(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	text, _ := e.AddAction(macro.KindText)
	tap, _ := e.AddAction(macro.KindTap)

	if err := e.SetText(text, "hi"); err != nil {
		t.Fatal(err)
	}
	if err := e.AppendKey(tap, key.Named(key.KeyEnter)); err != nil {
		t.Fatal(err)
	}
	if err := e.SetText(tap, "nope"); !errors.Is(err, macro.ErrKindMismatch) {
		t.Errorf("SetText on tap error = %v, want ErrKindMismatch", err)
	}

	want := []macro.Action{
		macro.Text{Content: "hi"},
		macro.KeyTap{Keys: key.Sequence{key.Named(key.KeyEnter)}},
	}
	got := actionsOf(e)
	for i := range want {
		if !macro.Equal(got[i], want[i]) {
			t.Errorf("action %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEditorLogsStructuralChangesAtDebug(t *testing.T) {
	e, out := newTestEditor(t, nil)
	id := appendLine(t, e, macro.Text{Content: "a"})
	e.Append(macro.Text{Content: "b"})
	_ = e.MoveDown(id)
	_ = e.ChangeKind(id, macro.KindDown)
	_ = e.Remove(id)

	log := out.String()
	for _, msg := range []string{"line inserted", "lines reordered", "line kind changed", "line removed"} {
		if !strings.Contains(log, "[DEBUG] test: "+msg) {
			t.Errorf("missing debug entry %q:\n%s", msg, log)
		}
	}
	if strings.Contains(log, "[WARN]") {
		t.Errorf("valid edits should not warn:\n%s", log)
	}
}

func TestEditorForwardsToView(t *testing.T) {
	view := &viewRecorder{}
	e, _ := newTestEditor(t, nil, WithObserver(view))

	id := appendLine(t, e, macro.Text{Content: "a"})
	if err := e.Remove(id); err != nil {
		t.Fatal(err)
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	if len(view.inserted) != 1 || view.inserted[0] != id {
		t.Errorf("inserted = %v", view.inserted)
	}
	if len(view.removed) != 1 || view.removed[0] != id {
		t.Errorf("removed = %v", view.removed)
	}
}

func TestEditorRandomEditsKeepPositionsDense(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	kinds := macro.Kinds()

	for step := 0; step < 200; step++ {
		lines := e.Lines()
		switch {
		case len(lines) == 0 || step%4 == 0:
			_, _ = e.AddAction(kinds[step%len(kinds)])
		case step%4 == 1:
			_ = e.Remove(lines[step%len(lines)].ID)
		case step%4 == 2:
			_ = e.Move(lines[step%len(lines)].ID, step%3-1)
		default:
			_ = e.ChangeKind(lines[step%len(lines)].ID, kinds[(step/4)%len(kinds)])
		}
		assertPositions(t, e)
	}
}

func TestEditorDocuments(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	e.Append(macro.Text{Content: "hello"})
	e.Append(macro.KeyTap{Keys: key.Sequence{key.Named(key.KeyEnter)}})

	if err := e.SaveDocument("greet"); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	if e.IsModified() || e.Name() != "greet" {
		t.Errorf("after save: modified=%v name=%q", e.IsModified(), e.Name())
	}

	cfg := config.Default()
	cfg.Storage.Documents = e.cfg.Storage.Documents
	other := NewEditor(cfg, nil)
	other.Append(macro.Text{Content: "stale"})
	if err := other.LoadDocument("greet"); err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	want, got := actionsOf(e), actionsOf(other)
	if len(got) != len(want) {
		t.Fatalf("loaded %d actions, want %d", len(got), len(want))
	}
	for i := range want {
		if !macro.Equal(got[i], want[i]) {
			t.Errorf("action %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEditorDocumentNames(t *testing.T) {
	e, _ := newTestEditor(t, nil)

	for _, name := range []string{"", " ", "..", "a/b", `a\b`} {
		if err := e.SaveDocument(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("SaveDocument(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestEditorImportKeepsListOnError(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	e.Append(macro.Text{Content: "keep"})

	if err := e.Import([]byte("{not json"), false); err == nil {
		t.Fatal("expected an error")
	}
	if e.List().Len() != 1 {
		t.Error("malformed import should leave the list alone")
	}

	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Import(data, true); err != nil {
		t.Fatal(err)
	}
	if e.List().Len() != 2 {
		t.Errorf("merge import gave %d lines, want 2", e.List().Len())
	}
}

func TestEditorLibrary(t *testing.T) {
	lib, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	e, _ := newTestEditor(t, nil, WithLibrary(lib))
	ctx := context.Background()

	e.Append(macro.KeyDown{Key: key.Ctrl})
	e.Append(macro.Text{Content: "c"})
	e.Append(macro.KeyUp{Key: key.Ctrl})
	want := actionsOf(e)

	id, err := e.SaveToLibrary(ctx, "copy")
	if err != nil || id == "" {
		t.Fatalf("SaveToLibrary() = %q, %v", id, err)
	}

	summaries, err := e.Library(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Name != "copy" || summaries[0].Actions != 3 {
		t.Errorf("Library() = %+v", summaries)
	}

	e.Clear()
	if err := e.LoadFromLibrary(ctx, "copy"); err != nil {
		t.Fatalf("LoadFromLibrary() error = %v", err)
	}
	got := actionsOf(e)
	if len(got) != len(want) {
		t.Fatalf("loaded %d actions, want %d", len(got), len(want))
	}
	for i := range want {
		if !macro.Equal(got[i], want[i]) {
			t.Errorf("action %d = %v, want %v", i, got[i], want[i])
		}
	}

	if err := e.DeleteFromLibrary(ctx, "copy"); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadFromLibrary(ctx, "copy"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("LoadFromLibrary() after delete error = %v, want ErrNotFound", err)
	}
}

func TestEditorWithoutLibrary(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	ctx := context.Background()

	if _, err := e.SaveToLibrary(ctx, "x"); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("SaveToLibrary() error = %v", err)
	}
	if err := e.LoadFromLibrary(ctx, "x"); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("LoadFromLibrary() error = %v", err)
	}
	if _, err := e.Library(ctx); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("Library() error = %v", err)
	}
	if err := e.DeleteFromLibrary(ctx, "x"); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("DeleteFromLibrary() error = %v", err)
	}
}

func TestEditorClose(t *testing.T) {
	e, _ := newTestEditor(t, capture.NewScript(key.Tap(keyA)))

	if err := e.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if e.IsRecording() {
		t.Error("Close should stop the recording")
	}
	if e.List().Len() != 1 {
		t.Errorf("Close should keep captured keys, got %d lines", e.List().Len())
	}
	if err := e.StartRecording(); !errors.Is(err, ErrClosed) {
		t.Errorf("StartRecording() after Close error = %v, want ErrClosed", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestEditorEditsAfterClose(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	id := appendLine(t, e, macro.Text{Content: "a"})
	tap := appendLine(t, e, macro.KeyTap{Keys: key.Sequence{keyA}})
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	before := e.Lines()

	tests := []struct {
		name string
		run  func() error
	}{
		{"append", func() error { _, err := e.Append(macro.Text{Content: "b"}); return err }},
		{"add", func() error { _, err := e.AddAction(macro.KindText); return err }},
		{"remove", func() error { return e.Remove(id) }},
		{"move", func() error { return e.MoveDown(id) }},
		{"change kind", func() error { return e.ChangeKind(id, macro.KindTap) }},
		{"set text", func() error { return e.SetText(id, "b") }},
		{"append key", func() error { return e.AppendKey(tap, keyB) }},
		{"clear", e.Clear},
		{"import", func() error { return e.Import([]byte("[]"), false) }},
		{"load", func() error { return e.LoadDocument("saved") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrClosed) {
				t.Errorf("error = %v, want ErrClosed", err)
			}
		})
	}

	after := e.Lines()
	if len(after) != len(before) {
		t.Fatalf("list length changed after Close: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if !macro.Equal(after[i].Action, before[i].Action) {
			t.Errorf("line %d changed after Close: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestEditorCloseIdempotent(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

type byteEncoder struct{}

func (byteEncoder) Encode(actions []macro.Action) ([]byte, error) {
	return []byte{byte(len(actions))}, nil
}

func TestEditorEncode(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	e.Append(macro.Text{Content: "a"})
	e.Append(macro.Text{Content: "b"})

	data, err := e.Encode(byteEncoder{})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 || data[0] != 2 {
		t.Errorf("Encode() = %v", data)
	}

	data, err = e.Encode(macro.JSONEncoder{})
	if err != nil || !bytes.Contains(data, []byte(`"Text"`)) {
		t.Errorf("JSON Encode() = %s, %v", data, err)
	}
}
