package ui

import "github.com/hajimehoshi/ebiten/v2"

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
	}
}

// keyEdges reports keys that went down since the previous frame.
type keyEdges struct {
	prev map[ebiten.Key]bool
}

func (k *keyEdges) justPressed(key ebiten.Key) bool {
	if k.prev == nil {
		k.prev = map[ebiten.Key]bool{}
	}
	down := isKeyPressed(key)
	was := k.prev[key]
	k.prev[key] = down
	return down && !was
}
