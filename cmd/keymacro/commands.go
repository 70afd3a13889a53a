package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymacro/internal/app"
	"github.com/dshills/keymacro/internal/input/capture"
	"github.com/dshills/keymacro/internal/input/macro"
	"github.com/dshills/keymacro/internal/input/macro/store"
)

type command struct {
	summary string
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"record":  {"Record keys from the terminal", cmdRecord},
	"compile": {"Compile a YAML key log into actions", cmdCompile},
	"show":    {"Print a saved macro", cmdShow},
	"save":    {"Copy a document into the library", cmdSave},
	"load":    {"Copy a library macro into a document", cmdLoad},
	"list":    {"List library macros", cmdList},
	"delete":  {"Delete a library macro", cmdDelete},
}

var commandOrder = []string{"record", "compile", "show", "save", "load", "list", "delete"}

// outputFlags are shared by the commands that produce a macro.
type outputFlags struct {
	save     string
	library  string
	noText   bool
	noMerge  bool
	jsonDump bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.save, "save", "", "Save the result as a named document")
	fs.StringVar(&o.library, "lib", "", "Save the result in the library under this name")
	fs.BoolVar(&o.noText, "no-text", false, "Keep printable keys as taps instead of text")
	fs.BoolVar(&o.noMerge, "no-merge", false, "Do not merge adjacent taps")
	fs.BoolVar(&o.jsonDump, "json", false, "Print the macro as JSON")
}

// apply folds the optimizer flags into the configuration.
func (o *outputFlags) apply(e *env) {
	if o.noText {
		e.cfg.Optimizer.TextRuns = false
	}
	if o.noMerge {
		e.cfg.Optimizer.MergeTaps = false
	}
}

func newFlagSet(e *env, name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: keymacro %s [options] %s\n\nOptions:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string, nargs int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != nargs {
		fs.Usage()
		return errUsage
	}
	return nil
}

// openLibrary opens the configured macro library.
func (e *env) openLibrary() (*store.Store, error) {
	path := e.cfg.Storage.Library
	if path == "" {
		path = store.DefaultDBPath()
	}
	lib, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening library %s: %w", path, err)
	}
	e.log.WithField("path", path).Debug("library opened")
	return lib, nil
}

// editor builds an editor with the library attached when needed.
func (e *env) editor(src macro.Source, withLibrary bool) (*app.Editor, error) {
	opts := []app.Option{app.WithLogger(e.log)}
	if withLibrary {
		lib, err := e.openLibrary()
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithLibrary(lib))
	}
	return app.NewEditor(e.cfg, src, opts...), nil
}

// finish prints and stores a freshly produced macro.
func (o *outputFlags) finish(e *env, ed *app.Editor) error {
	if err := printMacro(e.stdout, ed, o.jsonDump); err != nil {
		return err
	}
	if o.save != "" {
		if err := ed.SaveDocument(o.save); err != nil {
			return err
		}
	}
	if o.library != "" {
		if _, err := ed.SaveToLibrary(context.Background(), o.library); err != nil {
			return err
		}
	}
	return nil
}

func cmdRecord(e *env, args []string) error {
	var out outputFlags
	fs := newFlagSet(e, "record", "")
	out.register(fs)
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	out.apply(e)

	chord, err := e.cfg.StopChord()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	// Log lines would corrupt the screen; hold them until it is gone.
	held := &heldWriter{}
	e.log.SetOutput(held)
	restore := func() {
		screen.Fini()
		e.log.SetOutput(e.stderr)
		held.flush(e.stderr)
	}

	term := capture.NewTerminal(screen, capture.WithStopKey(chord))
	ed, err := e.editor(term, out.library != "")
	if err != nil {
		restore()
		return err
	}
	defer ed.Close()

	drawStatus(screen, fmt.Sprintf("Recording. Press %s to stop.", chord))
	if err := ed.StartRecording(); err != nil {
		restore()
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case <-term.StopRequested():
	case <-signals:
	}

	_, err = ed.StopRecording()
	restore()
	if err != nil {
		return err
	}
	return out.finish(e, ed)
}

func drawStatus(screen tcell.Screen, msg string) {
	screen.Clear()
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range msg {
		screen.SetContent(i, 0, r, nil, style)
	}
	screen.Show()
}

// heldWriter buffers output until flush.
type heldWriter struct {
	data []byte
}

func (h *heldWriter) Write(p []byte) (int, error) {
	h.data = append(h.data, p...)
	return len(p), nil
}

func (h *heldWriter) flush(w io.Writer) {
	_, _ = w.Write(h.data)
	h.data = nil
}

func cmdCompile(e *env, args []string) error {
	var out outputFlags
	fs := newFlagSet(e, "compile", "<keylog.yaml>")
	out.register(fs)
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	out.apply(e)

	script, err := capture.LoadScript(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := script.Validate(); err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	ed, err := e.editor(script, out.library != "")
	if err != nil {
		return err
	}
	defer ed.Close()

	// Stop waits for the script to deliver every event.
	if err := ed.StartRecording(); err != nil {
		return err
	}
	if _, err := ed.StopRecording(); err != nil {
		return err
	}
	return out.finish(e, ed)
}

func cmdShow(e *env, args []string) error {
	var fromLib, jsonDump bool
	fs := newFlagSet(e, "show", "<name>")
	fs.BoolVar(&fromLib, "lib", false, "Read from the library instead of documents")
	fs.BoolVar(&jsonDump, "json", false, "Print the macro as JSON")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	ed, err := e.editor(nil, fromLib)
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := loadInto(ed, fs.Arg(0), fromLib); err != nil {
		return err
	}
	return printMacro(e.stdout, ed, jsonDump)
}

// loadInto fills ed from a document or a library macro.
func loadInto(ed *app.Editor, name string, fromLib bool) error {
	if fromLib {
		return ed.LoadFromLibrary(context.Background(), name)
	}
	path, err := ed.DocumentPath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("document %s: %w", name, err)
	}
	return ed.LoadDocument(name)
}

func cmdSave(e *env, args []string) error {
	var as string
	fs := newFlagSet(e, "save", "<document>")
	fs.StringVar(&as, "as", "", "Library name (defaults to the document name)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	name := fs.Arg(0)
	if as == "" {
		as = name
	}

	ed, err := e.editor(nil, true)
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := loadInto(ed, name, false); err != nil {
		return err
	}
	id, err := ed.SaveToLibrary(context.Background(), as)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "saved %s (%d actions) as %s\n", as, ed.List().Len(), id)
	return nil
}

func cmdLoad(e *env, args []string) error {
	var as string
	fs := newFlagSet(e, "load", "<name>")
	fs.StringVar(&as, "as", "", "Document name (defaults to the library name)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	name := fs.Arg(0)
	if as == "" {
		as = name
	}

	ed, err := e.editor(nil, true)
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := ed.LoadFromLibrary(context.Background(), name); err != nil {
		return err
	}
	if err := ed.SaveDocument(as); err != nil {
		return err
	}
	path, _ := ed.DocumentPath(as)
	fmt.Fprintf(e.stdout, "wrote %s (%d actions) to %s\n", name, ed.List().Len(), path)
	return nil
}

func cmdList(e *env, args []string) error {
	fs := newFlagSet(e, "list", "")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	ed, err := e.editor(nil, true)
	if err != nil {
		return err
	}
	defer ed.Close()

	summaries, err := ed.Library(context.Background())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(e.stdout, "library is empty")
		return nil
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tACTIONS\tUPDATED\tID")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Actions, s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.ID)
	}
	return tw.Flush()
}

func cmdDelete(e *env, args []string) error {
	fs := newFlagSet(e, "delete", "<name>")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	ed, err := e.editor(nil, true)
	if err != nil {
		return err
	}
	defer ed.Close()

	err = ed.DeleteFromLibrary(context.Background(), fs.Arg(0))
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no macro named %q", fs.Arg(0))
	}
	return err
}

// printMacro writes one line per action, or the JSON document.
func printMacro(w io.Writer, ed *app.Editor, asJSON bool) error {
	if asJSON {
		data, err := ed.Export()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	lines := ed.Lines()
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", line.Position, line.Action.Kind(), macro.Payload(line.Action))
	}
	return tw.Flush()
}
