package canvas

import (
	"encoding/json"
	"strings"
)

// Color is a tag from the fixed palette shared by notes and connections.
// The zero value is White, which is also the color of newly created entities.
type Color int

const (
	White Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	Black
)

// Next returns the following palette entry. The cycle order is
// red → green → yellow → blue → magenta → cyan → white → black → red.
func (c Color) Next() Color {
	switch c {
	case Red:
		return Green
	case Green:
		return Yellow
	case Yellow:
		return Blue
	case Blue:
		return Magenta
	case Magenta:
		return Cyan
	case Cyan:
		return White
	case White:
		return Black
	case Black:
		return Red
	default:
		return White
	}
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	case Black:
		return "black"
	default:
		return "white"
	}
}

// ParseColor maps a color name to its palette entry. Unrecognized names fall
// back to White rather than failing, so maps written by newer versions with a
// wider palette still load.
func ParseColor(name string) Color {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red
	case "green":
		return Green
	case "yellow":
		return Yellow
	case "blue":
		return Blue
	case "magenta":
		return Magenta
	case "cyan":
		return Cyan
	case "black":
		return Black
	default:
		return White
	}
}

// MarshalJSON encodes the color as its lowercase name.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a color name, falling back to White for unknown names.
func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*c = ParseColor(name)
	return nil
}
