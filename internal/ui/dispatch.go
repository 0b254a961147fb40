package ui

import (
	"fmt"
	"runtime/debug"
)

// dispatch delivers ev to start and then to each ancestor up to the root.
// The path is fixed before the first handler runs; handlers that reshape
// the tree do not change who receives this event. PreventDefault never
// stops the walk; StopPropagation and handler failures do.
func (r *Renderer) dispatch(ev *Event, start *Node) error {
	if start == nil {
		return nil
	}
	ev.Target = start

	path := make([]*Node, 0, 8)
	for n := start; n != nil; n = n.parent {
		path = append(path, n)
	}

	defer func() { ev.CurrentTarget = nil }()
	for _, n := range path {
		if r.destroyed {
			return nil
		}
		h := n.handlers[ev.Kind]
		if h == nil || n.destroyed {
			continue
		}
		ev.CurrentTarget = n
		if err := invoke(h, ev); err != nil {
			herr := &HandlerError{NodeID: n.id, Kind: ev.Kind, Err: err}
			r.log.WithField("node", n.id).Error("handler failed: %s: %v", ev.Kind, err)
			return herr
		}
		if ev.stopped {
			break
		}
	}
	return nil
}

func invoke(h Handler, ev *Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: string(debug.Stack())}
		}
	}()
	return h(ev)
}

func (r *Renderer) newEvent(kind EventKind, x, y int, g *gesture) *Event {
	ev := &Event{Kind: kind, X: x, Y: y}
	if g != nil {
		ev.Button = g.button
	}
	return ev
}

func describe(n *Node) string {
	if n == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s#%s", n.kind, n.id)
}
