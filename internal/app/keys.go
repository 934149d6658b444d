package app

import "github.com/notemap/notemap/internal/canvas"

// directionForKey maps the shared movement keys to a direction and step.
// The lowercase vim keys and plain arrows step by one; their Shift variants
// step by five. ok is false for any other key.
func directionForKey(key string) (dir canvas.Direction, step int, ok bool) {
	switch key {
	case "h", "left":
		return canvas.DirLeft, 1, true
	case "H", "shift+left":
		return canvas.DirLeft, 5, true
	case "l", "right":
		return canvas.DirRight, 1, true
	case "L", "shift+right":
		return canvas.DirRight, 5, true
	case "k", "up":
		return canvas.DirUp, 1, true
	case "K", "shift+up":
		return canvas.DirUp, 5, true
	case "j", "down":
		return canvas.DirDown, 1, true
	case "J", "shift+down":
		return canvas.DirDown, 5, true
	}
	return 0, 0, false
}

// arrowDirection maps only the plain arrow keys, for insert-mode cursor
// movement where letters must stay insertable.
func arrowDirection(key string) (canvas.Direction, bool) {
	switch key {
	case "left":
		return canvas.DirLeft, true
	case "right":
		return canvas.DirRight, true
	case "up":
		return canvas.DirUp, true
	case "down":
		return canvas.DirDown, true
	}
	return 0, false
}

// delta converts a direction and step into viewport/position deltas.
func delta(dir canvas.Direction, step int) (dx, dy int) {
	switch dir {
	case canvas.DirLeft:
		return -step, 0
	case canvas.DirRight:
		return step, 0
	case canvas.DirUp:
		return 0, -step
	default:
		return 0, step
	}
}
