package app

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/pretty"

	"github.com/dshills/termtree/internal/config"
	"github.com/dshills/termtree/internal/input/mouse"
	"github.com/dshills/termtree/internal/logging"
	"github.com/dshills/termtree/internal/renderer/backend"
	"github.com/dshills/termtree/internal/scene"
	"github.com/dshills/termtree/internal/script"
	"github.com/dshills/termtree/internal/ui"
)

// Screen is a paint backend that also delivers terminal events.
// *backend.Terminal satisfies it.
type Screen interface {
	backend.Backend
	PollEvent() tcell.Event
	Interrupt(data any)
}

// Interrupt payloads posted to the event loop.
type (
	wakeRequest   struct{}
	reloadRequest struct{}
	quitRequest   struct{}
)

// Application owns the renderer, the mounted scene and the event loop.
// Everything except Shutdown runs on the goroutine that called Run.
type Application struct {
	cfg    config.Config
	log    *logging.Logger
	screen Screen

	renderer *ui.Renderer
	decoder  *mouse.Decoder
	scene    *scene.Instance
	watcher  *scene.Watcher

	running   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates an application that will draw to screen.
func New(cfg config.Config, screen Screen, log *logging.Logger) *Application {
	if log == nil {
		log = logging.Nop()
	}
	return &Application{
		cfg:     cfg,
		log:     log.WithComponent("app"),
		screen:  screen,
		decoder: mouse.NewDecoder(),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once Run has mounted the scene and drawn the first frame,
// or when Run returns before getting that far.
func (app *Application) Ready() <-chan struct{} {
	return app.ready
}

// Renderer returns the renderer once Run has started it.
func (app *Application) Renderer() *ui.Renderer {
	return app.renderer
}

// Run initializes the screen, mounts the configured scene and processes
// events until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.markReady()

	r, err := ui.NewRenderer(app.uiConfig(),
		ui.WithBackend(app.screen),
		ui.WithLogger(app.log),
		ui.WithWake(func() { app.screen.Interrupt(wakeRequest{}) }),
	)
	if err != nil {
		return &InitError{Component: "renderer", Err: err}
	}
	app.renderer = r
	defer app.close()

	if err := app.mountConfigured(); err != nil {
		return err
	}
	if app.cfg.Scene.Watch && app.cfg.Scene.Path != "" {
		if err := app.startWatcher(); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}
	if err := app.settle(); err != nil {
		if errors.Is(err, ErrQuit) {
			return nil
		}
		return err
	}
	app.markReady()

	return app.eventLoop()
}

func (app *Application) markReady() {
	app.readyOnce.Do(func() { close(app.ready) })
}

func (app *Application) eventLoop() error {
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		if err := app.settle(); err != nil {
			return err
		}
	}
}

// settle flushes pending updates. A runaway update loop is logged rather
// than fatal since the next event may break it.
func (app *Application) settle() error {
	err := app.renderer.Settle()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ui.ErrUnsettled):
		app.log.Warn("settle: %v", err)
		return nil
	case errors.Is(err, ui.ErrRendererDestroyed):
		return ErrQuit
	}
	return err
}

// handleEvent applies one terminal event. Handler failures are logged and
// the loop carries on.
func (app *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		for _, me := range app.decoder.Decode(ev) {
			if err := app.applyMouse(me); err != nil {
				app.reportInputError(me, err)
			}
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		if app.cfg.UI.Width > 0 {
			w = app.cfg.UI.Width
		}
		if app.cfg.UI.Height > 0 {
			h = app.cfg.UI.Height
		}
		return app.renderer.Resize(w, h)

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
			return ErrQuit
		}

	case *tcell.EventInterrupt:
		switch ev.Data().(type) {
		case quitRequest:
			return ErrQuit
		case reloadRequest:
			app.reload()
		}
	}
	return nil
}

func (app *Application) applyMouse(me mouse.Event) error {
	x, y := me.Position.X, me.Position.Y
	switch me.Action {
	case mouse.ActionPress:
		return app.renderer.PressDown(x, y, me.Button)
	case mouse.ActionRelease:
		return app.renderer.Release(x, y, me.Button)
	case mouse.ActionMove:
		return app.renderer.MoveTo(x, y)
	case mouse.ActionScroll:
		return app.renderer.Scroll(x, y, me.DX, me.DY)
	}
	return nil
}

func (app *Application) reportInputError(me mouse.Event, err error) {
	var he *ui.HandlerError
	if errors.As(err, &he) {
		// The renderer already logged the failure with its node.
		return
	}
	app.log.Error("%s at %d,%d: %v", me.Action, me.Position.X, me.Position.Y, err)
}

func (app *Application) uiConfig() ui.Config {
	return ui.Config{
		Width:     app.cfg.UI.Width,
		Height:    app.cfg.UI.Height,
		AutoFocus: app.cfg.UI.AutoFocus,
	}
}

func (app *Application) scriptOptions() []script.Option {
	return []script.Option{script.WithTimeout(app.cfg.Script.Timeout())}
}

func (app *Application) mountConfigured() error {
	if app.cfg.Scene.Path == "" {
		return nil
	}
	f, err := scene.Load(app.cfg.Scene.Path)
	if err != nil {
		return &InitError{Component: "scene", Err: err}
	}
	inst, err := scene.Mount(app.renderer, f, app.log, app.scriptOptions()...)
	if err != nil {
		return &InitError{Component: "scene", Err: err}
	}
	app.scene = inst
	app.log.Info("mounted scene %s", f.Path)
	return nil
}

// reload swaps the mounted scene for the file's current contents. A scene
// that fails to parse or mount leaves the previous one in place.
func (app *Application) reload() {
	f, err := scene.Load(app.cfg.Scene.Path)
	if err != nil {
		app.log.Error("reload: %v", err)
		return
	}

	var previous *scene.File
	if app.scene != nil {
		previous = app.scene.File
		if err := app.scene.Unmount(); err != nil {
			app.log.Warn("unmount: %v", err)
		}
		app.scene = nil
	}
	app.decoder.Reset()

	inst, err := scene.Mount(app.renderer, f, app.log, app.scriptOptions()...)
	if err != nil {
		app.log.Error("reload: %v", err)
		if previous == nil {
			return
		}
		if inst, err = scene.Mount(app.renderer, previous, app.log, app.scriptOptions()...); err != nil {
			app.log.Error("restoring previous scene: %v", err)
			return
		}
	}
	app.scene = inst
	app.log.Info("reloaded scene %s", app.cfg.Scene.Path)
}

func (app *Application) startWatcher() error {
	w, err := scene.NewWatcher(app.cfg.Scene.Path, app.cfg.Scene.Debounce(), app.log)
	if err != nil {
		return err
	}
	app.watcher = w

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		for {
			select {
			case _, ok := <-w.Changes():
				if !ok {
					return
				}
				app.screen.Interrupt(reloadRequest{})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				app.log.Warn("watcher: %v", err)
			case <-w.Done():
				return
			}
		}
	}()
	return nil
}

// Shutdown asks a running event loop to exit. Safe from any goroutine.
func (app *Application) Shutdown() {
	if app.running.Load() {
		app.screen.Interrupt(quitRequest{})
	}
}

// close tears down in reverse start order.
func (app *Application) close() {
	app.stopOnce.Do(func() {
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Warn("closing watcher: %v", err)
			}
			app.wg.Wait()
		}
		if app.scene != nil {
			if err := app.scene.Unmount(); err != nil {
				app.log.Warn("unmount: %v", err)
			}
		}
		if err := app.renderer.Destroy(); err != nil {
			app.log.Warn("destroying renderer: %v", err)
		}
	})
}

// Dump mounts the configured scene on an in-memory surface, settles it and
// writes the layout snapshot as indented JSON.
func Dump(cfg config.Config, w io.Writer, log *logging.Logger) error {
	if cfg.Scene.Path == "" {
		return ErrNoScene
	}
	f, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return err
	}

	width, height := cfg.UI.Width, cfg.UI.Height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	r, err := ui.NewRenderer(ui.Config{Width: width, Height: height, AutoFocus: cfg.UI.AutoFocus},
		ui.WithBackend(backend.NewNullBackend(width, height)),
		ui.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer r.Destroy()

	inst, err := scene.Mount(r, f, log, script.WithTimeout(cfg.Script.Timeout()))
	if err != nil {
		return err
	}
	defer inst.Unmount()

	if err := r.Settle(); err != nil {
		return err
	}
	js, err := r.Snapshot()
	if err != nil {
		return err
	}
	if _, err := w.Write(pretty.Pretty([]byte(js))); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
