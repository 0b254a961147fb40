package mouse

// Button identifies a pointer button. The zero value means no button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// ParseButton maps "left", "middle" or "right" to a Button.
func ParseButton(s string) (Button, bool) {
	switch s {
	case "left", "":
		return ButtonLeft, true
	case "middle":
		return ButtonMiddle, true
	case "right":
		return ButtonRight, true
	}
	return ButtonNone, false
}

// Action is the kind of primitive a Decoder emits.
type Action uint8

const (
	ActionNone Action = iota
	ActionPress
	ActionRelease
	// ActionMove is emitted with or without a held button.
	ActionMove
	// ActionScroll is one wheel tick.
	ActionScroll
)

func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionScroll:
		return "scroll"
	default:
		return "none"
	}
}

// Modifier is a keyboard modifier bitmask held during a mouse event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether mod is held.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Position is a surface cell coordinate.
type Position struct {
	X, Y int
}

// Event is one normalized mouse primitive.
type Event struct {
	Action    Action
	Position  Position
	Button    Button
	Modifiers Modifier

	// DX and DY carry the wheel direction for ActionScroll.
	DX, DY int
}
