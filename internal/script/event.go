package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termtree/internal/ui"
)

const eventTypeName = "termtree.event"

var eventMethods = map[string]lua.LGFunction{
	"preventDefault":     eventPreventDefault,
	"defaultPrevented":   eventDefaultPrevented,
	"stopPropagation":    eventStopPropagation,
	"propagationStopped": eventPropagationStopped,
}

func registerEventType(L *lua.LState) {
	mt := L.NewTypeMetatable(eventTypeName)
	methods := L.SetFuncs(L.NewTable(), eventMethods)
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		ev := checkEvent(L)
		key := L.CheckString(2)
		if m := methods.RawGetString(key); m != lua.LNil {
			L.Push(m)
			return 1
		}
		L.Push(eventField(ev, key))
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ev := checkEvent(L)
		L.Push(lua.LString(ev.Kind.String() + "@" + nodeID(ev.Target)))
		return 1
	}))
}

// newEvent wraps ev for one handler call.
func newEvent(L *lua.LState, ev *ui.Event) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = ev
	L.SetMetatable(ud, L.GetTypeMetatable(eventTypeName))
	return ud
}

// invalidate detaches the event so a handler that stashed it can't touch
// it after dispatch has moved on.
func invalidate(ud *lua.LUserData) {
	ud.Value = nil
}

func checkEvent(L *lua.LState) *ui.Event {
	ud := L.CheckUserData(1)
	ev, ok := ud.Value.(*ui.Event)
	if !ok || ev == nil {
		L.ArgError(1, "event expected (events are only valid during their handler)")
		return nil
	}
	return ev
}

func eventField(ev *ui.Event, key string) lua.LValue {
	switch key {
	case "kind":
		return lua.LString(ev.Kind.String())
	case "x":
		return lua.LNumber(ev.X)
	case "y":
		return lua.LNumber(ev.Y)
	case "button":
		return lua.LString(ev.Button.String())
	case "dx":
		return lua.LNumber(ev.DX)
	case "dy":
		return lua.LNumber(ev.DY)
	case "target":
		return optionalID(ev.Target)
	case "current":
		return optionalID(ev.CurrentTarget)
	}
	return lua.LNil
}

func optionalID(n *ui.Node) lua.LValue {
	if n == nil {
		return lua.LNil
	}
	return lua.LString(n.ID())
}

func nodeID(n *ui.Node) string {
	if n == nil {
		return "<none>"
	}
	return n.ID()
}

func eventPreventDefault(L *lua.LState) int {
	checkEvent(L).PreventDefault()
	return 0
}

func eventDefaultPrevented(L *lua.LState) int {
	L.Push(lua.LBool(checkEvent(L).DefaultPrevented()))
	return 1
}

func eventStopPropagation(L *lua.LState) int {
	checkEvent(L).StopPropagation()
	return 0
}

func eventPropagationStopped(L *lua.LState) int {
	L.Push(lua.LBool(checkEvent(L).PropagationStopped()))
	return 1
}
