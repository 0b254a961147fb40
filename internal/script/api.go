package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termtree/internal/ui"
)

// uiFuncs is the "ui" module visible to scripts.
func (e *Engine) uiFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"focus":       e.luaFocus,
		"blur":        e.luaBlur,
		"focused":     e.luaFocused,
		"exists":      e.luaExists,
		"text":        e.luaText,
		"set_text":    e.luaSetText,
		"set_visible": e.luaSetVisible,
		"scroll_to":   e.luaScrollTo,
		"scroll_by":   e.luaScrollBy,
		"scroll":      e.luaScrollOffset,
		"log":         e.luaLog,
	}
}

// node resolves the id at argument n or raises a Lua error.
func (e *Engine) node(L *lua.LState, n int) *ui.Node {
	id := L.CheckString(n)
	node := e.r.FindByID(id)
	if node == nil {
		L.ArgError(n, "no node with id "+id)
	}
	return node
}

// check raises err as a Lua error.
func check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}

// ui.focus(id) returns whether the node now holds focus.
func (e *Engine) luaFocus(L *lua.LState) int {
	n := e.node(L, 1)
	check(L, n.Focus())
	L.Push(lua.LBool(n.Focused()))
	return 1
}

// ui.blur([id]) clears focus, or only if id holds it.
func (e *Engine) luaBlur(L *lua.LState) int {
	if L.GetTop() >= 1 {
		check(L, e.node(L, 1).Blur())
		return 0
	}
	if f := e.r.FocusedNode(); f != nil {
		check(L, e.r.Blur(f))
	}
	return 0
}

func (e *Engine) luaFocused(L *lua.LState) int {
	L.Push(optionalID(e.r.FocusedNode()))
	return 1
}

func (e *Engine) luaExists(L *lua.LState) int {
	L.Push(lua.LBool(e.r.FindByID(L.CheckString(1)) != nil))
	return 1
}

func (e *Engine) luaText(L *lua.LState) int {
	L.Push(lua.LString(e.node(L, 1).Text()))
	return 1
}

func (e *Engine) luaSetText(L *lua.LState) int {
	n := e.node(L, 1)
	check(L, n.SetText(L.CheckString(2)))
	return 0
}

func (e *Engine) luaSetVisible(L *lua.LState) int {
	n := e.node(L, 1)
	check(L, n.SetVisible(L.CheckBool(2)))
	return 0
}

func (e *Engine) luaScrollTo(L *lua.LState) int {
	n := e.node(L, 1)
	check(L, n.ScrollTo(L.CheckInt(2), L.CheckInt(3)))
	return 0
}

func (e *Engine) luaScrollBy(L *lua.LState) int {
	n := e.node(L, 1)
	check(L, n.ScrollBy(L.CheckInt(2), L.CheckInt(3)))
	return 0
}

// ui.scroll(id) returns the node's scroll offset as x, y.
func (e *Engine) luaScrollOffset(L *lua.LState) int {
	x, y := e.node(L, 1).ScrollOffset()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("%s", L.CheckString(1))
	return 0
}
