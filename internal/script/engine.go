// Package script runs pointer event handlers written in Lua.
//
// An Engine owns one sandboxed gopher-lua state bound to a renderer. Scene
// files load a chunk of Lua into it and then bind global functions to node
// events with Handler. Handlers see the event as userdata and reach the tree
// through the "ui" module.
//
// gopher-lua states are not goroutine-safe. Handlers run on the goroutine
// that drives the renderer; the Engine's mutex only guards against Go callers
// on other goroutines.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termtree/internal/logging"
	"github.com/dshills/termtree/internal/ui"
)

// DefaultTimeout bounds a single chunk or handler run.
const DefaultTimeout = 250 * time.Millisecond

// Engine executes Lua against a renderer.
type Engine struct {
	L *lua.LState

	mu      sync.Mutex
	r       *ui.Renderer
	log     *logging.Logger
	timeout time.Duration
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds each Lua run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used by ui.log and handler failures.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates a sandboxed engine bound to r.
func New(r *ui.Renderer, opts ...Option) (*Engine, error) {
	if r == nil {
		return nil, errors.New("script: nil renderer")
	}
	e := &Engine{
		r:       r,
		log:     logging.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("script")

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	registerEventType(e.L)
	e.L.SetGlobal("ui", e.L.SetFuncs(e.L.NewTable(), e.uiFuncs()))
	return e, nil
}

// Load runs a chunk of Lua, typically a scene's script block. name labels the
// chunk in error messages.
func (e *Engine) Load(name, code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return &Error{Func: name, Err: err}
	}
	_, err = e.call(name, fn)
	return err
}

// Has reports whether name is a global Lua function.
func (e *Engine) Has(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	return e.L.GetGlobal(name).Type() == lua.LTFunction
}

// Handler returns a ui.Handler that calls the global Lua function name with
// the event. The function must already be defined. Returning false from it
// prevents the default action.
func (e *Engine) Handler(name string) (ui.Handler, error) {
	if !e.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}
	return func(ev *ui.Event) error {
		return e.handle(name, ev)
	}, nil
}

func (e *Engine) handle(name string, ev *ui.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	fn, ok := e.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoFunction, name)
	}

	ud := newEvent(e.L, ev)
	defer invalidate(ud)

	ret, err := e.call(name, fn, ud)
	if err != nil {
		return err
	}
	if ret == lua.LFalse {
		ev.PreventDefault()
	}
	return nil
}

// call runs fn under the timeout and returns its first result. The caller
// holds e.mu.
func (e *Engine) call(name string, fn *lua.LFunction, args ...lua.LValue) (ret lua.LValue, err error) {
	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		e.L.SetContext(ctx)
		defer e.L.RemoveContext()
		defer func() {
			if err != nil && ctx.Err() != nil {
				err = &Error{Func: name, Err: ErrTimeout}
			}
		}()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &Error{Func: name, Err: fmt.Errorf("lua panic: %v", rec)}
		}
	}()

	top := e.L.GetTop()
	e.L.Push(fn)
	for _, a := range args {
		e.L.Push(a)
	}
	if err := e.L.PCall(len(args), 1, nil); err != nil {
		e.L.SetTop(top)
		return lua.LNil, &Error{Func: name, Err: err}
	}
	ret = e.L.Get(-1)
	e.L.SetTop(top)
	return ret, nil
}

// Close releases the Lua state. Handlers bound earlier return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}
