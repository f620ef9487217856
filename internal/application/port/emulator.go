package port

// GridSize is a terminal grid in character cells.
type GridSize struct {
	Cols int
	Rows int
}

// Emulator renders a byte stream into a character grid. Implementations
// wrap an external terminal emulation engine.
type Emulator interface {
	// Write feeds inbound stream bytes for rendering.
	Write(p []byte)

	// OnInput registers the callback receiving user keystrokes and pastes.
	OnInput(fn func(p []byte))

	// Fit recomputes the grid that fits a container of the given pixel size.
	Fit(widthPx, heightPx int) GridSize

	// Focus moves input focus to this emulator.
	Focus()

	// Input injects user input as if typed into the focused emulator.
	Input(p []byte)

	// Render returns the visible grid as text.
	Render() string

	// Dispose releases rendering resources.
	Dispose()
}

// EmulatorFactory creates one emulator per pane.
type EmulatorFactory interface {
	NewEmulator() Emulator
}
