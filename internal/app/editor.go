package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/keymacro/internal/config"
	"github.com/dshills/keymacro/internal/input/key"
	"github.com/dshills/keymacro/internal/input/macro"
	"github.com/dshills/keymacro/internal/input/macro/store"
)

// ErrNoSource indicates a recording was requested from an editor built
// without a key source.
var ErrNoSource = errors.New("no key source configured")

// documentExt is the file extension of macro documents.
const documentExt = ".json"

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. Defaults to NullLogger.
func WithLogger(l *Logger) Option {
	return func(e *Editor) {
		e.log = l
	}
}

// WithLibrary attaches an open macro library.
// The editor closes it on Close.
func WithLibrary(s *store.Store) Option {
	return func(e *Editor) {
		e.library = s
	}
}

// WithObserver forwards list changes to a presentation layer after the
// editor has logged them.
func WithObserver(o macro.Observer) Option {
	return func(e *Editor) {
		e.view = o
	}
}

// WithMetrics sets the metrics sink. Defaults to a fresh Metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// Editor owns one macro: its action list, the session that records into
// it and where it is saved.
type Editor struct {
	cfg     config.Config
	log     *Logger
	metrics *Metrics
	list    *macro.List
	session *macro.Session
	src     macro.Source
	library *store.Store
	view    macro.Observer

	mu       sync.Mutex
	name     string
	modified bool
	closed   bool
}

// NewEditor creates an editor with an empty list. src may be nil for
// editors that never record.
func NewEditor(cfg config.Config, src macro.Source, opts ...Option) *Editor {
	e := &Editor{
		cfg:  cfg,
		log:  NullLogger,
		list: macro.NewList(),
		src:  src,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics()
	}
	e.log = e.log.WithComponent("editor")

	e.list.SetObserver(&editorObserver{editor: e, log: e.log.WithComponent("list")})
	if src != nil {
		e.session = macro.NewSession(src, e.list,
			macro.WithOptimizeOptions(cfg.OptimizeOptions()...),
			macro.WithAbortHandler(e.onAbort),
		)
	}
	return e
}

// List returns the underlying action list.
func (e *Editor) List() *macro.List {
	return e.list
}

// Lines returns a snapshot of the list in position order.
func (e *Editor) Lines() []macro.Line {
	return e.list.Lines()
}

// Metrics returns the editor's metrics.
func (e *Editor) Metrics() *Metrics {
	return e.metrics
}

// Name returns the name the macro was last saved or loaded under.
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// IsModified returns true if the list changed since the last save or load.
func (e *Editor) IsModified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modified
}

func (e *Editor) setModified(modified bool) {
	e.mu.Lock()
	e.modified = modified
	e.mu.Unlock()
}

func (e *Editor) setName(name string) {
	e.mu.Lock()
	e.name = name
	e.modified = false
	e.mu.Unlock()
}

func (e *Editor) checkOpen(op string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return NewOperationError(op, "", ErrClosed)
	}
	return nil
}

// IsRecording returns true while a recording runs.
func (e *Editor) IsRecording() bool {
	return e.session != nil && e.session.IsRecording()
}

// StartRecording begins capturing keys. It does nothing if a recording is
// already running.
func (e *Editor) StartRecording() error {
	if err := e.checkOpen("record"); err != nil {
		return err
	}
	if e.session == nil {
		return NewOperationError("record", "", ErrNoSource)
	}
	if e.session.IsRecording() {
		return nil
	}
	if err := e.session.Start(); err != nil {
		return NewOperationError("record", "", err)
	}
	e.log.WithField("session", e.session.ID()).Info("recording started")
	return nil
}

// StopRecording ends the recording and appends the compiled actions to
// the list. It returns the new line ids. It does nothing while idle.
func (e *Editor) StopRecording() ([]macro.LineID, error) {
	if e.session == nil || !e.session.IsRecording() {
		return nil, nil
	}

	id := e.session.ID()
	timer := StartTimer()
	ids, err := e.session.Stop()
	if err != nil {
		return nil, NewOperationError("stop", id, err)
	}

	e.metrics.RecordRecording(e.session.LastCount(), len(ids), timer.Elapsed())
	e.log.WithFields(map[string]any{"session": id, "actions": len(ids)}).Info("recording stopped")
	return ids, nil
}

// ToggleRecording starts a recording when idle and stops it otherwise.
func (e *Editor) ToggleRecording() ([]macro.LineID, error) {
	if e.IsRecording() {
		return e.StopRecording()
	}
	return nil, e.StartRecording()
}

// onAbort runs when a recording ends in a capture failure.
func (e *Editor) onAbort(err error) {
	e.metrics.RecordAbort()
	var capErr *macro.CaptureError
	if errors.As(err, &capErr) {
		e.log.WithFields(map[string]any{"session": capErr.SessionID, "op": capErr.Op}).Error("recording aborted: %v", capErr.Err)
		return
	}
	e.log.Error("recording aborted: %v", err)
}

// rejected wraps and logs an edit the list refused.
func (e *Editor) rejected(op string, id macro.LineID, err error) *OperationError {
	e.metrics.RecordRejected()
	e.log.WithField("line", id).Warn("%s refused: %v", op, err)
	return NewOperationError(op, lineTarget(id), err)
}

func lineTarget(id macro.LineID) string {
	return fmt.Sprintf("line %d", id)
}

// Append adds an action at the end of the list.
func (e *Editor) Append(a macro.Action) (macro.LineID, error) {
	if err := e.checkOpen("append"); err != nil {
		return 0, err
	}
	return e.list.Append(a), nil
}

// AddAction appends the default action of kind: empty text, an unset key
// or an empty tap.
func (e *Editor) AddAction(kind macro.Kind) (macro.LineID, error) {
	if err := e.checkOpen("add"); err != nil {
		return 0, err
	}
	a := macro.New(kind)
	if a == nil {
		e.metrics.RecordRejected()
		e.log.Warn("add refused: unknown kind %d", int(kind))
		return 0, NewOperationError("add", kind.String(), macro.ErrUnknownKind)
	}
	return e.list.Append(a), nil
}

// Remove deletes a line.
func (e *Editor) Remove(id macro.LineID) error {
	if err := e.checkOpen("remove"); err != nil {
		return err
	}
	if err := e.list.Remove(id); err != nil {
		return e.rejected("remove", id, err)
	}
	return nil
}

// Move swaps a line with the line offset positions away.
func (e *Editor) Move(id macro.LineID, offset int) error {
	if err := e.checkOpen("move"); err != nil {
		return err
	}
	if err := e.list.Move(id, offset); err != nil {
		return e.rejected("move", id, err)
	}
	return nil
}

// MoveUp swaps a line with the one before it.
func (e *Editor) MoveUp(id macro.LineID) error {
	return e.Move(id, -1)
}

// MoveDown swaps a line with the one after it.
func (e *Editor) MoveDown(id macro.LineID) error {
	return e.Move(id, 1)
}

// ChangeKind replaces a line's action with the default action of kind.
func (e *Editor) ChangeKind(id macro.LineID, kind macro.Kind) error {
	if err := e.checkOpen("change kind"); err != nil {
		return err
	}
	if err := e.list.ChangeKind(id, kind); err != nil {
		return e.rejected("change kind", id, err)
	}
	return nil
}

// SetText replaces the content of a Text line.
func (e *Editor) SetText(id macro.LineID, content string) error {
	if err := e.checkOpen("set text"); err != nil {
		return err
	}
	if err := e.list.SetText(id, content); err != nil {
		return e.rejected("set text", id, err)
	}
	return nil
}

// AppendKey adds a key to a KeyTap line or sets the key of a KeyDown or
// KeyUp line.
func (e *Editor) AppendKey(id macro.LineID, code key.Code) error {
	if err := e.checkOpen("append key"); err != nil {
		return err
	}
	if err := e.list.AppendKey(id, code); err != nil {
		return e.rejected("append key", id, err)
	}
	return nil
}

// Clear removes every line.
func (e *Editor) Clear() error {
	if err := e.checkOpen("clear"); err != nil {
		return err
	}
	e.list.Clear()
	return nil
}

// Encode renders the macro with enc, such as a device firmware encoder.
func (e *Editor) Encode(enc macro.Encoder) ([]byte, error) {
	data, err := e.list.Encode(enc)
	if err != nil {
		e.log.Error("encode failed: %v", err)
		return nil, NewOperationError("encode", e.Name(), err)
	}
	return data, nil
}

// validName rejects names that are empty or would escape the documents
// directory.
func validName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// DocumentsDir returns the directory macro documents are saved in.
func (e *Editor) DocumentsDir() (string, error) {
	if e.cfg.Storage.Documents != "" {
		return e.cfg.Storage.Documents, nil
	}
	return macro.DefaultDocumentsDir()
}

// DocumentPath returns the file a named macro document lives in.
func (e *Editor) DocumentPath(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	dir, err := e.DocumentsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+documentExt), nil
}

// SaveDocument writes the list to the named JSON document.
func (e *Editor) SaveDocument(name string) error {
	path, err := e.DocumentPath(name)
	if err != nil {
		return NewOperationError("save", name, err)
	}
	if err := macro.Save(e.list, path); err != nil {
		e.log.WithField("path", path).Error("save failed: %v", err)
		return NewOperationError("save", name, err)
	}
	e.setName(name)
	e.log.WithField("path", path).Info("saved %d actions", e.list.Len())
	return nil
}

// LoadDocument replaces the list with the named JSON document. A missing
// document leaves the list untouched.
func (e *Editor) LoadDocument(name string) error {
	if err := e.checkOpen("load"); err != nil {
		return err
	}
	if e.IsRecording() {
		return NewOperationError("load", name, ErrRecording)
	}
	path, err := e.DocumentPath(name)
	if err != nil {
		return NewOperationError("load", name, err)
	}
	if err := macro.Load(e.list, path); err != nil {
		e.log.WithField("path", path).Error("load failed: %v", err)
		return NewOperationError("load", name, err)
	}
	e.setName(name)
	e.log.WithField("path", path).Info("loaded %d actions", e.list.Len())
	return nil
}

// Export returns the list as a JSON document.
func (e *Editor) Export() ([]byte, error) {
	return macro.Export(e.list)
}

// Import decodes a JSON document and appends its actions, or replaces the
// list when merge is false. Malformed input leaves the list unchanged.
func (e *Editor) Import(data []byte, merge bool) error {
	if err := e.checkOpen("import"); err != nil {
		return err
	}
	if !merge && e.IsRecording() {
		return NewOperationError("import", "", ErrRecording)
	}
	if err := macro.Import(e.list, data, merge); err != nil {
		e.log.Warn("import refused: %v", err)
		return NewOperationError("import", "", err)
	}
	return nil
}

// SaveToLibrary stores the list in the macro library under name and
// returns the macro's id.
func (e *Editor) SaveToLibrary(ctx context.Context, name string) (string, error) {
	if e.library == nil {
		return "", NewOperationError("save", name, ErrNoLibrary).WithContext("library")
	}
	if err := validName(name); err != nil {
		return "", NewOperationError("save", name, err).WithContext("library")
	}
	id, err := e.library.Save(ctx, name, e.list.Actions())
	if err != nil {
		e.log.WithField("macro", name).Error("library save failed: %v", err)
		return "", NewOperationError("save", name, err).WithContext("library")
	}
	e.setName(name)
	e.log.WithFields(map[string]any{"macro": name, "id": id}).Info("saved to library")
	return id, nil
}

// LoadFromLibrary replaces the list with the named library macro.
func (e *Editor) LoadFromLibrary(ctx context.Context, name string) error {
	if err := e.checkOpen("load"); err != nil {
		return err
	}
	if e.library == nil {
		return NewOperationError("load", name, ErrNoLibrary).WithContext("library")
	}
	if e.IsRecording() {
		return NewOperationError("load", name, ErrRecording).WithContext("library")
	}
	actions, err := e.library.Load(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.WithField("macro", name).Error("library load failed: %v", err)
		}
		return NewOperationError("load", name, err).WithContext("library")
	}
	e.list.Clear()
	e.list.AppendAll(actions)
	e.setName(name)
	e.log.WithField("macro", name).Info("loaded %d actions from library", len(actions))
	return nil
}

// Library lists the macros in the library.
func (e *Editor) Library(ctx context.Context) ([]store.Summary, error) {
	if e.library == nil {
		return nil, NewOperationError("list", "", ErrNoLibrary).WithContext("library")
	}
	summaries, err := e.library.List(ctx)
	if err != nil {
		return nil, NewOperationError("list", "", err).WithContext("library")
	}
	return summaries, nil
}

// DeleteFromLibrary removes a macro from the library.
func (e *Editor) DeleteFromLibrary(ctx context.Context, name string) error {
	if e.library == nil {
		return NewOperationError("delete", name, ErrNoLibrary).WithContext("library")
	}
	if err := e.library.Delete(ctx, name); err != nil {
		return NewOperationError("delete", name, err).WithContext("library")
	}
	e.log.WithField("macro", name).Info("deleted from library")
	return nil
}

// Close stops a running recording, keeping what was captured, and closes
// the library. Close is idempotent.
func (e *Editor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	var errs ErrorList
	if _, err := e.StopRecording(); err != nil {
		errs.Add(err)
	}
	if e.library != nil {
		if err := e.library.Close(); err != nil {
			errs.Add(NewOperationError("close", "library", err))
		}
	}
	return errs.AsError()
}

// editorObserver logs list changes, tracks the modified flag and forwards
// to the presentation observer.
type editorObserver struct {
	editor *Editor
	log    *Logger
}

func (o *editorObserver) changed() {
	o.editor.metrics.RecordEdit()
	o.editor.setModified(true)
}

func (o *editorObserver) LineInserted(id macro.LineID, position int) {
	o.changed()
	o.log.WithFields(map[string]any{"line": id, "pos": position}).Debug("line inserted")
	if v := o.editor.view; v != nil {
		v.LineInserted(id, position)
	}
}

func (o *editorObserver) LineRemoved(id macro.LineID) {
	o.changed()
	o.log.WithField("line", id).Debug("line removed")
	if v := o.editor.view; v != nil {
		v.LineRemoved(id)
	}
}

func (o *editorObserver) LinesReordered(a, b macro.LineID, posA, posB int) {
	o.changed()
	o.log.WithFields(map[string]any{"line": a, "pos": posA, "other": b, "otherPos": posB}).Debug("lines reordered")
	if v := o.editor.view; v != nil {
		v.LinesReordered(a, b, posA, posB)
	}
}

func (o *editorObserver) LineVariantChanged(id macro.LineID, kind macro.Kind) {
	o.changed()
	o.log.WithFields(map[string]any{"line": id, "kind": kind}).Debug("line kind changed")
	if v := o.editor.view; v != nil {
		v.LineVariantChanged(id, kind)
	}
}

func (o *editorObserver) LineUpdated(id macro.LineID) {
	o.changed()
	o.log.WithField("line", id).Debug("line updated")
	if v := o.editor.view; v != nil {
		v.LineUpdated(id)
	}
}
