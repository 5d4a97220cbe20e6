// Package luascript runs Lua edit scripts against a Splicer.
//
// Scripts run in a fresh sandboxed state per call with only the base,
// table, string and math libraries. The splicer is exposed through
// globals:
//
//	source()                  -- the original text
//	len()                     -- its length in the runner's unit
//	splice(start, end, text)  -- replace [start, end)
//	splice_range(r, text)     -- replace a range spelled like "2..", "..=4"
//	insert(at, text)
//	remove(start, end)
//	render()                  -- the current result
//
// A failing splicer call raises a Lua error. When that error ends the
// script, Run returns the original Go error so callers can match it with
// errors.Is; an error caught with pcall does not leak into the result.
package luascript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multisplice"
	"github.com/dshills/multisplice/internal/units"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a script is cancelled by its deadline.
var ErrTimeout = errors.New("lua script timed out")

// Runner executes Lua edit scripts.
type Runner struct {
	timeout time.Duration
	unit    units.Unit
	output  io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithUnits sets the unit script offsets are counted in.
func WithUnits(u units.Unit) Option {
	return func(r *Runner) {
		r.unit = u
	}
}

// WithOutput redirects print() output.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.output = w
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
		unit:    units.Bytes,
		output:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes code against s.
func (r *Runner) Run(ctx context.Context, s *multisplice.Splicer, code string) error {
	return r.run(ctx, s, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// RunFile executes the Lua file at path against s.
func (r *Runner) RunFile(ctx context.Context, s *multisplice.Splicer, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("lua script: %w", err)
	}
	return r.run(ctx, s, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (r *Runner) run(ctx context.Context, s *multisplice.Splicer, exec func(*lua.LState) error) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newSandboxedState(r.output)
	defer L.Close()
	L.SetContext(ctx)

	mod := &splicerModule{
		splicer: s,
		conv:    units.NewConverter(s.Original(), r.unit),
	}
	mod.register(L)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()

	if runErr := exec(L); runErr != nil {
		if splicerErr, ok := goError(runErr); ok {
			return splicerErr
		}
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			return fmt.Errorf("lua script: %w", runErr)
		}
	}
	return nil
}

// newSandboxedState opens only the safe standard libraries and removes
// the loaders that could read code from disk.
func newSandboxedState(output io.Writer) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		for i := 1; i <= n; i++ {
			if i > 1 {
				fmt.Fprint(output, "\t")
			}
			fmt.Fprint(output, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(output)
		return 0
	}))
	return L
}
