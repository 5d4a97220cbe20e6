// Package app implements the multisplice commands on top of the splicer,
// the script loaders and the watcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/multisplice"
	"github.com/dshills/multisplice/internal/config"
	"github.com/dshills/multisplice/internal/logging"
	"github.com/dshills/multisplice/internal/script"
	"github.com/dshills/multisplice/internal/script/luascript"
	"github.com/dshills/multisplice/internal/textdiff"
	"github.com/dshills/multisplice/internal/units"
	"github.com/dshills/multisplice/internal/watch"
)

// Options configures the application.
type Options struct {
	// Config holds loaded settings. Defaults to config.Default().
	Config *config.Config

	// Logger receives progress messages. Defaults to logging.NullLogger.
	Logger *logging.Logger

	// Stdout receives results that are not written to a file.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Application runs apply, derive and watch requests.
type Application struct {
	cfg    *config.Config
	log    *logging.Logger
	stdout io.Writer
}

// New creates an Application.
func New(opts Options) *Application {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NullLogger
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Application{
		cfg:    opts.Config,
		log:    opts.Logger,
		stdout: opts.Stdout,
	}
}

// ApplyRequest describes one apply run.
type ApplyRequest struct {
	// Source is the file whose contents are spliced.
	Source string

	// Script is a TOML, YAML, JSON or Lua edit script.
	Script string

	// Output is the file to write. Empty means Stdout.
	Output string

	// Units overrides both the config and the script's own units.
	Units units.Unit

	// Diff writes a unified diff instead of the result.
	Diff bool

	// Color colors the diff. Only meaningful with Diff.
	Color bool
}

// Apply loads the source and script, applies the script and writes the
// rendered result or its diff.
func (app *Application) Apply(ctx context.Context, req ApplyRequest) error {
	log := app.log.WithComponent("apply").WithField("script", req.Script)

	data, err := os.ReadFile(req.Source)
	if err != nil {
		return &OperationError{Op: "read", Target: req.Source, Err: err}
	}
	source := string(data)

	out, err := app.Render(ctx, source, req.Script, req.Units)
	if err != nil {
		return &OperationError{Op: "apply", Target: req.Script, Err: err}
	}
	log.Debug("rendered %d bytes from %d", len(out), len(source))

	if req.Diff {
		diff, err := textdiff.Unified(filepath.Base(req.Source), source, out, app.cfg.Diff.Context)
		if err != nil {
			return &OperationError{Op: "diff", Target: req.Source, Err: err}
		}
		if req.Color {
			diff = textdiff.Colorize(diff)
		}
		out = diff
	}

	if err := app.write(req.Output, out); err != nil {
		return err
	}
	log.Info("applied to %s", req.Source)
	return nil
}

// Render applies the script at scriptPath to source and returns the result.
//
// Offsets are read in unit u when set, else in the script's own units,
// else in the configured units.
func (app *Application) Render(ctx context.Context, source, scriptPath string, u units.Unit) (string, error) {
	format, err := script.FormatFromPath(scriptPath)
	if err != nil {
		return "", err
	}

	s := multisplice.New(source)

	if format == script.Lua {
		if u == "" {
			u = app.cfg.Units()
		}
		runner := luascript.NewRunner(
			luascript.WithUnits(u),
			luascript.WithOutput(os.Stderr),
		)
		if err := runner.RunFile(ctx, s, scriptPath); err != nil {
			return "", err
		}
	} else {
		sc, err := script.Load(scriptPath)
		if err != nil {
			return "", err
		}
		if u == "" {
			if sc.Units != "" {
				if u, err = sc.Unit(); err != nil {
					return "", err
				}
			} else {
				u = app.cfg.Units()
			}
		}
		if err := sc.Apply(s, units.NewConverter(source, u)); err != nil {
			return "", err
		}
	}

	app.log.WithComponent("apply").Debug("%d edits in %s units", s.NumEdits(), u)
	return s.Render()
}

// Watch applies once and then again whenever the source or script
// changes, until ctx ends. Failed runs are logged and do not stop the
// loop. It returns nil when ctx is cancelled.
func (app *Application) Watch(ctx context.Context, req ApplyRequest) error {
	log := app.log.WithComponent("watch")

	if req.Output != "" {
		same, err := samePath(req.Output, req.Source)
		if err != nil {
			return err
		}
		if same {
			return &OperationError{Op: "watch", Target: req.Output, Err: ErrSameFile}
		}
	}

	w, err := watch.New(
		[]string{req.Source, req.Script},
		watch.WithDebounce(app.cfg.Debounce()),
		watch.WithErrorHandler(func(err error) {
			log.Error("%v", err)
		}),
	)
	if err != nil {
		return &OperationError{Op: "watch", Target: req.Source, Err: err}
	}
	defer w.Close()

	if err := app.Apply(ctx, req); err != nil {
		log.Error("%v", err)
	}
	log.Info("watching %d files", len(w.Files()))

	err = w.Run(ctx, func(ctx context.Context, events []watch.Event) error {
		for _, e := range events {
			log.Debug("%s %s", e.Op, e.Path)
		}
		return app.Apply(ctx, req)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Derive writes a script in format f that turns the contents of oldPath
// into the contents of newPath.
func (app *Application) Derive(oldPath, newPath string, f script.Format) error {
	if !f.IsDeclarative() {
		return &OperationError{Op: "derive", Err: fmt.Errorf("%w: %s", script.ErrNotDeclarative, f)}
	}

	a, err := os.ReadFile(oldPath)
	if err != nil {
		return &OperationError{Op: "read", Target: oldPath, Err: err}
	}
	b, err := os.ReadFile(newPath)
	if err != nil {
		return &OperationError{Op: "read", Target: newPath, Err: err}
	}

	edits := textdiff.Derive(string(a), string(b))
	app.log.WithComponent("derive").Debug("%d edits between %s and %s", len(edits), oldPath, newPath)

	data, err := script.Encode(f, script.FromEdits(edits))
	if err != nil {
		return &OperationError{Op: "derive", Err: err}
	}
	_, err = app.stdout.Write(data)
	return err
}

func (app *Application) write(path, out string) error {
	if path == "" {
		_, err := io.WriteString(app.stdout, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	return nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
