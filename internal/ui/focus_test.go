package ui

import (
	"testing"

	"github.com/dshills/termtree/internal/input/mouse"
)

// focusScene builds two focusable boxes side by side:
//
//	a: (2,1) 10x3     b: (20,1) 10x3
func focusScene(t *testing.T, cfg Config) (*Renderer, *Node, *Node) {
	t.Helper()
	r := newTestRenderer(t, cfg)
	aOpts := absBox("a", 2, 1, 10, 3)
	aOpts.Focusable = true
	bOpts := absBox("b", 20, 1, 10, 3)
	bOpts.Focusable = true
	a := mustNode(t, r, KindBox, aOpts)
	b := mustNode(t, r, KindBox, bOpts)
	mustAdd(t, r.Root(), a)
	mustAdd(t, r.Root(), b)
	mustSettle(t, r)
	return r, a, b
}

var testConfig = Config{Width: 40, Height: 10, AutoFocus: true}

func TestClickFocusesFocusableNode(t *testing.T) {
	r, a, b := focusScene(t, testConfig)

	if err := r.Click(3, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if !a.Focused() {
		t.Error("expected a to be focused")
	}
	assertSingleFocus(t, r)

	if err := r.Click(21, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if a.Focused() || !b.Focused() {
		t.Errorf("focus should move to b: a=%v b=%v", a.Focused(), b.Focused())
	}
	assertSingleFocus(t, r)
}

func TestPreventDefaultOnMouseDownSuppressesFocus(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	if err := a.SetHandler(EventDown, func(ev *Event) error {
		ev.PreventDefault()
		return nil
	}); err != nil {
		t.Fatalf("SetHandler() failed: %v", err)
	}

	if err := r.Click(3, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if a.Focused() {
		t.Error("preventDefault in mousedown should suppress auto-focus")
	}
	if r.FocusedNode() != nil {
		t.Errorf("focus holder = %v, want none", r.FocusedNode().ID())
	}
}

func TestPreventDefaultOnClickOrUpSuppressesFocus(t *testing.T) {
	for _, kind := range []EventKind{EventUp, EventClick} {
		t.Run(kind.String(), func(t *testing.T) {
			r, a, _ := focusScene(t, testConfig)
			_ = a.SetHandler(kind, func(ev *Event) error {
				ev.PreventDefault()
				return nil
			})
			if err := r.Click(3, 2, mouse.ButtonLeft); err != nil {
				t.Fatalf("Click() failed: %v", err)
			}
			if a.Focused() {
				t.Errorf("preventDefault in %s should suppress auto-focus", kind)
			}
		})
	}
}

func TestClickNonFocusableWithoutFocusableAncestor(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	plain := mustNode(t, r, KindBox, absBox("plain", 0, 6, 8, 2))
	mustAdd(t, r.Root(), plain)
	mustSettle(t, r)

	if err := r.Focus(a); err != nil {
		t.Fatalf("Focus() failed: %v", err)
	}
	if err := r.Click(1, 7, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if !a.Focused() || plain.Focused() {
		t.Error("clicking a non-focusable node must not change focus")
	}
	assertSingleFocus(t, r)
}

func TestClickNonFocusableDescendantFocusesAncestor(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	inner := mustNode(t, r, KindBox, absBox("inner", 1, 1, 3, 1))
	mustAdd(t, a, inner)
	mustSettle(t, r)

	// inner resolves to (3,2) 3x1
	if got, _ := r.HitTest(4, 2); got != inner {
		t.Fatalf("HitTest(4,2) = %v, want inner", got)
	}
	if err := r.Click(4, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if inner.Focused() || !a.Focused() {
		t.Errorf("expected ancestor a focused, inner=%v a=%v", inner.Focused(), a.Focused())
	}
}

func TestNonLeftClicksNeverAutoFocus(t *testing.T) {
	for _, b := range []mouse.Button{mouse.ButtonRight, mouse.ButtonMiddle} {
		t.Run(b.String(), func(t *testing.T) {
			r, a, _ := focusScene(t, testConfig)
			clicks := 0
			_ = a.SetHandler(EventClick, func(*Event) error {
				clicks++
				return nil
			})
			downs := 0
			_ = a.SetHandler(EventDown, func(ev *Event) error {
				downs++
				if ev.Button != b {
					t.Errorf("event button = %s, want %s", ev.Button, b)
				}
				return nil
			})

			if err := r.Click(3, 2, b); err != nil {
				t.Fatalf("Click() failed: %v", err)
			}
			if a.Focused() {
				t.Errorf("%s click must not focus", b)
			}
			if downs != 1 {
				t.Errorf("mousedown fired %d times, want 1", downs)
			}
			if clicks != 0 {
				t.Errorf("%s click synthesized %d click events", b, clicks)
			}
		})
	}
}

func TestDragSuppressesDefaultAction(t *testing.T) {
	r, a, b := focusScene(t, testConfig)
	var moves []string
	_ = a.SetHandler(EventMove, func(ev *Event) error {
		moves = append(moves, ev.Target.ID())
		return nil
	})
	clicked := false
	_ = a.SetHandler(EventClick, func(*Event) error {
		clicked = true
		return nil
	})
	dragEnded := false
	_ = a.SetHandler(EventDragEnd, func(*Event) error {
		dragEnded = true
		return nil
	})

	if err := r.PressDown(3, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("PressDown() failed: %v", err)
	}
	if err := r.MoveTo(21, 2); err != nil {
		t.Fatalf("MoveTo() failed: %v", err)
	}
	if err := r.Release(21, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}

	if a.Focused() || b.Focused() {
		t.Errorf("drag must not focus: a=%v b=%v", a.Focused(), b.Focused())
	}
	if clicked {
		t.Error("drag must not synthesize click")
	}
	if !dragEnded {
		t.Error("expected dragend on the capture target")
	}
	if len(moves) != 1 || moves[0] != "a" {
		t.Errorf("moves = %v, want capture target a only", moves)
	}
	if _, held := r.Pressed(); held {
		t.Error("gesture should be retired after release")
	}
}

func TestMoveBackToPressPointStillDrag(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)

	_ = r.PressDown(3, 2, mouse.ButtonLeft)
	_ = r.MoveTo(4, 2)
	_ = r.MoveTo(3, 2)
	_ = r.Release(3, 2, mouse.ButtonLeft)
	if a.Focused() {
		t.Error("any movement during a gesture should suppress focus")
	}
}

func TestAncestorPreventDefault(t *testing.T) {
	r := newTestRenderer(t)
	pOpts := absBox("parent", 0, 0, 20, 5)
	pOpts.Focusable = true
	cOpts := absBox("child", 2, 1, 5, 2)
	cOpts.Focusable = true

	var order []string
	pOpts.OnMouseDown = func(ev *Event) error {
		order = append(order, "parent")
		if ev.Target.ID() != "child" || ev.CurrentTarget.ID() != "parent" {
			t.Errorf("target=%s current=%s", ev.Target.ID(), ev.CurrentTarget.ID())
		}
		ev.PreventDefault()
		return nil
	}
	cOpts.OnMouseDown = func(ev *Event) error {
		order = append(order, "child")
		return nil
	}
	parent := mustNode(t, r, KindBox, pOpts)
	child := mustNode(t, r, KindBox, cOpts)
	mustAdd(t, r.Root(), parent)
	mustAdd(t, parent, child)
	mustSettle(t, r)

	if err := r.Click(3, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("dispatch order = %v, want [child parent]", order)
	}
	if child.Focused() || parent.Focused() {
		t.Error("ancestor preventDefault should suppress auto-focus on the whole path")
	}
}

func TestExactlyOneMouseDownPerClick(t *testing.T) {
	r := newTestRenderer(t)
	downs := map[string]int{}
	count := func(id string) Handler {
		return func(*Event) error {
			downs[id]++
			return nil
		}
	}
	pOpts := absBox("parent", 0, 0, 20, 5)
	pOpts.OnMouseDown = count("parent")
	cOpts := absBox("child", 1, 1, 4, 2)
	cOpts.OnMouseDown = count("child")
	parent := mustNode(t, r, KindBox, pOpts)
	child := mustNode(t, r, KindBox, cOpts)
	mustAdd(t, r.Root(), parent)
	mustAdd(t, parent, child)
	_ = r.Root().SetHandler(EventDown, count("root"))
	mustSettle(t, r)

	if err := r.Click(2, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	for _, id := range []string{"child", "parent", "root"} {
		if downs[id] != 1 {
			t.Errorf("%s mousedown count = %d, want 1", id, downs[id])
		}
	}
}

func TestAutoFocusDisabled(t *testing.T) {
	r, a, b := focusScene(t, Config{Width: 40, Height: 10, AutoFocus: false})

	if err := r.Click(3, 2, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if a.Focused() {
		t.Error("click must not focus when AutoFocus is off")
	}

	if err := a.Focus(); err != nil {
		t.Fatalf("Focus() failed: %v", err)
	}
	for range 3 {
		if err := r.Click(21, 2, mouse.ButtonLeft); err != nil {
			t.Fatalf("Click() failed: %v", err)
		}
	}
	if !a.Focused() || b.Focused() {
		t.Errorf("explicit focus should persist: a=%v b=%v", a.Focused(), b.Focused())
	}
	assertSingleFocus(t, r)
}

func TestFocusNoOps(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	plain := mustNode(t, r, KindBox, absBox("plain", 0, 6, 5, 1))
	mustAdd(t, r.Root(), plain)
	detachedOpts := absBox("detached", 0, 0, 1, 1)
	detachedOpts.Focusable = true
	detached := mustNode(t, r, KindBox, detachedOpts)

	_ = r.Focus(a)
	tests := []struct {
		name string
		node *Node
	}{
		{"non-focusable", plain},
		{"detached", detached},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Focus(tt.node); err != nil {
				t.Errorf("Focus() should not fail, got %v", err)
			}
			if r.FocusedNode() != a {
				t.Error("focus should stay on a")
			}
		})
	}

	if err := r.Blur(plain); err != nil || !a.Focused() {
		t.Error("blurring a non-holder is a no-op")
	}
	if err := a.Blur(); err != nil || a.Focused() || r.FocusedNode() != nil {
		t.Error("blurring the holder should clear focus")
	}
}

func TestSetFocusableFalseBlurs(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	_ = r.Focus(a)
	if err := a.SetFocusable(false); err != nil {
		t.Fatalf("SetFocusable() failed: %v", err)
	}
	if a.Focused() || r.FocusedNode() != nil {
		t.Error("making the holder unfocusable should blur it")
	}
}

func TestExternalReconcileMatchesExplicitCalls(t *testing.T) {
	values := []bool{false, true, false}

	r1, a1, _ := focusScene(t, testConfig)
	var external []bool
	for _, v := range values {
		if err := a1.SetFocusedProp(v); err != nil {
			t.Fatalf("SetFocusedProp() failed: %v", err)
		}
		mustSettle(t, r1)
		external = append(external, a1.Focused())
		assertSingleFocus(t, r1)
	}

	r2, a2, _ := focusScene(t, testConfig)
	var explicit []bool
	for _, v := range values {
		if v {
			_ = r2.Focus(a2)
		} else if r2.FocusedNode() == a2 {
			_ = r2.Blur(a2)
		}
		explicit = append(explicit, a2.Focused())
	}

	for i := range values {
		if external[i] != explicit[i] || external[i] != values[i] {
			t.Errorf("step %d: external=%v explicit=%v want %v", i, external[i], explicit[i], values[i])
		}
	}
}

func TestExternalFalseOnlyBlursHolder(t *testing.T) {
	r, a, b := focusScene(t, testConfig)
	_ = r.Focus(b)
	if err := r.ReconcileFocused(a, false); err != nil {
		t.Fatalf("ReconcileFocused() failed: %v", err)
	}
	if !b.Focused() {
		t.Error("false for a non-holder must not blur the holder")
	}
	_ = r.ReconcileFocused(a, true)
	if !a.Focused() || b.Focused() {
		t.Error("true should move focus to a")
	}
	assertSingleFocus(t, r)
}

func TestControlledFocusSettleScenario(t *testing.T) {
	r := newTestRenderer(t)
	opts := absBox("box", 0, 0, 10, 3)
	opts.Focusable = true
	opts.Focused = Bool(false)
	box := mustNode(t, r, KindBox, opts)
	mustAdd(t, r.Root(), box)

	mustSettle(t, r)
	if box.Focused() {
		t.Fatal("after first settle focused should be false")
	}

	_ = box.SetFocusedProp(true)
	mustSettle(t, r)
	if !box.Focused() {
		t.Fatal("after binding true focused should be true")
	}

	_ = box.SetFocusedProp(false)
	mustSettle(t, r)
	if box.Focused() {
		t.Fatal("after binding false focused should be false")
	}
}

func TestControlledFocusInitiallyTrue(t *testing.T) {
	r := newTestRenderer(t)
	opts := absBox("box", 0, 0, 10, 3)
	opts.Focusable = true
	opts.Focused = Bool(true)
	box := mustNode(t, r, KindBox, opts)
	mustAdd(t, r.Root(), box)

	if box.Focused() {
		t.Error("controlled focus applies on settle, not at creation")
	}
	mustSettle(t, r)
	if !box.Focused() {
		t.Error("expected focus after settle")
	}
}

func TestScrollViewportChildClickFocusesViewport(t *testing.T) {
	r := newTestRenderer(t)
	sbOpts := absBox("viewport", 0, 0, 20, 5)
	sbOpts.Focusable = true
	sb := mustNode(t, r, KindScrollBox, sbOpts)
	text := mustNode(t, r, KindText, Options{ID: "label", Text: "hello"})
	mustAdd(t, r.Root(), sb)
	mustAdd(t, sb, text)
	mustSettle(t, r)

	if got, _ := r.HitTest(1, 0); got != text {
		t.Fatalf("HitTest(1,0) = %v, want text", got)
	}
	if err := r.Click(1, 0, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if text.Focused() || !sb.Focused() {
		t.Errorf("expected viewport focused, text=%v viewport=%v", text.Focused(), sb.Focused())
	}
}

func TestClickEmptySpaceChangesNothing(t *testing.T) {
	r, a, b := focusScene(t, testConfig)
	_ = r.Focus(a)
	mustSettle(t, r)
	before, err := r.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}

	if got, _ := r.HitTest(15, 8); got != r.Root() {
		t.Fatalf("HitTest(15,8) = %v, want root", got)
	}
	if err := r.Click(15, 8, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if !a.Focused() || b.Focused() {
		t.Error("empty space click must not change focus")
	}
	after, _ := r.Snapshot()
	if before != after {
		t.Errorf("state changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestClickOutsideRendererHitsNothing(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	_ = r.Focus(a)
	if got, _ := r.HitTest(100, 100); got != nil {
		t.Errorf("HitTest outside = %v, want nil", got)
	}
	if err := r.Click(100, 100, mouse.ButtonLeft); err != nil {
		t.Fatalf("Click() failed: %v", err)
	}
	if !a.Focused() {
		t.Error("miss must not change focus")
	}
}

func TestRemoveBlursFocusedDescendant(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	innerOpts := absBox("inner", 1, 1, 2, 1)
	innerOpts.Focusable = true
	inner := mustNode(t, r, KindBox, innerOpts)
	mustAdd(t, a, inner)
	mustSettle(t, r)
	_ = r.Focus(inner)

	if err := r.Root().Remove(a); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if inner.Focused() || r.FocusedNode() != nil {
		t.Error("removing an ancestor should blur the focused descendant")
	}
	if err := r.Focus(inner); err != nil || inner.Focused() {
		t.Error("detached nodes cannot take focus")
	}
	assertSingleFocus(t, r)
}

func TestDestroyBlursFocusedNode(t *testing.T) {
	r, a, _ := focusScene(t, testConfig)
	_ = r.Focus(a)
	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}
	if r.FocusedNode() != nil || a.Focused() {
		t.Error("destroy should blur")
	}
	if err := r.Focus(a); err != nil || a.Focused() {
		t.Error("destroyed nodes cannot take focus")
	}
}

func TestFocusInvariantAcrossSequence(t *testing.T) {
	r, a, b := focusScene(t, testConfig)
	steps := []func(){
		func() { _ = r.Click(3, 2, mouse.ButtonLeft) },
		func() { _ = r.Focus(b) },
		func() { _ = b.SetFocusedProp(false); _ = r.Settle() },
		func() { _ = a.SetFocusedProp(true); _ = r.Settle() },
		func() { _ = r.Click(21, 2, mouse.ButtonRight) },
		func() { _ = r.Click(21, 2, mouse.ButtonLeft) },
		func() { _ = r.Blur(b) },
		func() { _ = r.Focus(a); _ = r.Focus(a) },
	}
	for i, step := range steps {
		step()
		t.Logf("step %d: focused=%s", i, describe(r.FocusedNode()))
		assertSingleFocus(t, r)
	}
}
