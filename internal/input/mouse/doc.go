// Package mouse defines normalized mouse primitives and decodes raw terminal
// mouse reports into them.
//
// Terminals report the full set of held buttons on every mouse event rather
// than discrete presses and releases. A Decoder remembers the previous mask
// and emits the transitions:
//
//	d := mouse.NewDecoder()
//	for _, ev := range d.Decode(tcellMouse) {
//	    switch ev.Action {
//	    case mouse.ActionPress:
//	        r.PressDown(ev.Position.X, ev.Position.Y, ev.Button)
//	    case mouse.ActionRelease:
//	        r.Release(ev.Position.X, ev.Position.Y, ev.Button)
//	    case mouse.ActionMove:
//	        r.MoveTo(ev.Position.X, ev.Position.Y)
//	    case mouse.ActionScroll:
//	        r.Scroll(ev.Position.X, ev.Position.Y, ev.DX, ev.DY)
//	    }
//	}
//
// Only one button is tracked at a time. A second button pressed while the
// first is held is reported as a press once the first is released. Wheel
// reports never change the held button.
//
// A Decoder is not safe for concurrent use.
package mouse
