package mouse

import "github.com/gdamore/tcell/v2"

// Decoder turns tcell mouse reports, which carry the full button mask on
// every report, into press/move/release/scroll primitives. It is stateful:
// a press is only reported on the transition from no button to a button.
type Decoder struct {
	held    Button
	last    Position
	hasLast bool
}

// NewDecoder creates a decoder with no button held.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Held returns the button the decoder believes is down.
func (d *Decoder) Held() Button {
	return d.held
}

// Reset forgets the held button and the last position.
func (d *Decoder) Reset() {
	d.held = ButtonNone
	d.hasLast = false
}

// Decode converts one tcell mouse report into zero or more primitives.
func (d *Decoder) Decode(ev *tcell.EventMouse) []Event {
	if ev == nil {
		return nil
	}
	x, y := ev.Position()
	pos := Position{X: x, Y: y}
	mods := convertMod(ev.Modifiers())
	mask := ev.Buttons()

	// Wheel reports never change the held button state.
	if dx, dy := wheelDelta(mask); dx != 0 || dy != 0 {
		d.last, d.hasLast = pos, true
		return []Event{{Action: ActionScroll, Position: pos, Modifiers: mods, DX: dx, DY: dy}}
	}

	pressed := primaryButton(mask)
	var out []Event

	switch {
	case d.held == ButtonNone && pressed != ButtonNone:
		out = append(out, Event{Action: ActionPress, Position: pos, Button: pressed, Modifiers: mods})
		d.held = pressed
	case d.held != ButtonNone && !maskHas(mask, d.held):
		out = append(out, Event{Action: ActionRelease, Position: pos, Button: d.held, Modifiers: mods})
		d.held = ButtonNone
		if pressed != ButtonNone {
			out = append(out, Event{Action: ActionPress, Position: pos, Button: pressed, Modifiers: mods})
			d.held = pressed
		}
	case !d.hasLast || pos != d.last:
		out = append(out, Event{Action: ActionMove, Position: pos, Button: d.held, Modifiers: mods})
	}

	d.last, d.hasLast = pos, true
	return out
}

func primaryButton(mask tcell.ButtonMask) Button {
	switch {
	case mask&tcell.ButtonPrimary != 0:
		return ButtonLeft
	case mask&tcell.ButtonSecondary != 0:
		return ButtonRight
	case mask&tcell.ButtonMiddle != 0:
		return ButtonMiddle
	default:
		return ButtonNone
	}
}

func maskHas(mask tcell.ButtonMask, b Button) bool {
	switch b {
	case ButtonLeft:
		return mask&tcell.ButtonPrimary != 0
	case ButtonRight:
		return mask&tcell.ButtonSecondary != 0
	case ButtonMiddle:
		return mask&tcell.ButtonMiddle != 0
	}
	return false
}

func wheelDelta(mask tcell.ButtonMask) (int, int) {
	dx, dy := 0, 0
	if mask&tcell.WheelUp != 0 {
		dy--
	}
	if mask&tcell.WheelDown != 0 {
		dy++
	}
	if mask&tcell.WheelLeft != 0 {
		dx--
	}
	if mask&tcell.WheelRight != 0 {
		dx++
	}
	return dx, dy
}

func convertMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
