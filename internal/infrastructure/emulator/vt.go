// Package emulator adapts charmbracelet/x/vt to port.Emulator.
package emulator

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/x/vt"
	"github.com/rs/zerolog"

	"github.com/bnema/dumbmux/internal/application/port"
)

const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16

	// Grid used until the first Fit.
	initialCols = 80
	initialRows = 24

	readBufferSize = 4096
)

// Config sets the pixel size of one character cell.
type Config struct {
	CellWidth  int
	CellHeight int
	Logger     zerolog.Logger
}

// Factory creates one vt emulator per pane.
type Factory struct {
	cfg Config
}

var _ port.EmulatorFactory = (*Factory)(nil)

// NewFactory creates a factory. Non-positive cell sizes use the defaults.
func NewFactory(cfg Config) *Factory {
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = DefaultCellWidth
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = DefaultCellHeight
	}
	return &Factory{cfg: cfg}
}

// NewEmulator implements port.EmulatorFactory.
func (f *Factory) NewEmulator() port.Emulator {
	return New(f.cfg)
}

// Emulator renders a session's output into a grid and turns user input and
// terminal replies into bytes for the session.
type Emulator struct {
	mu       sync.Mutex
	term     *vt.SafeEmulator
	readDone chan struct{}
	size     port.GridSize
	focused  bool
	disposed bool

	cellWidth  int
	cellHeight int
	logger     zerolog.Logger

	inputMu sync.Mutex
	onInput func([]byte)
}

var _ port.Emulator = (*Emulator)(nil)

// New creates an emulator with an 80x24 grid and starts draining its
// input side.
func New(cfg Config) *Emulator {
	e := &Emulator{
		term:       vt.NewSafeEmulator(initialCols, initialRows),
		readDone:   make(chan struct{}),
		size:       port.GridSize{Cols: initialCols, Rows: initialRows},
		cellWidth:  max(cfg.CellWidth, 1),
		cellHeight: max(cfg.CellHeight, 1),
		logger:     cfg.Logger,
	}
	go e.readLoop()
	return e
}

// Write feeds session output to the screen.
func (e *Emulator) Write(p []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	if _, err := e.term.Write(p); err != nil {
		e.logger.Debug().Err(err).Msg("emulator write failed")
	}
}

// OnInput registers the receiver of keystrokes and terminal replies.
func (e *Emulator) OnInput(fn func([]byte)) {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.onInput = fn
}

// Fit resizes the grid to the largest one that fits the pixel box. The grid
// never drops below one cell.
func (e *Emulator) Fit(widthPx, heightPx int) port.GridSize {
	size := port.GridSize{
		Cols: max(widthPx/e.cellWidth, 1),
		Rows: max(heightPx/e.cellHeight, 1),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.disposed && size != e.size {
		e.term.Resize(size.Cols, size.Rows)
		e.size = size
	}
	return size
}

// Focus marks the emulator as the keyboard target.
func (e *Emulator) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
}

// Focused reports whether Focus was called.
func (e *Emulator) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// Input types p into the terminal. It reaches OnInput through the
// emulator's input side, interleaved with any replies the terminal emits.
// Input after Dispose hits the closed pipe and is dropped.
func (e *Emulator) Input(p []byte) {
	e.mu.Lock()
	disposed := e.disposed
	e.mu.Unlock()
	if disposed {
		return
	}
	e.term.SendText(string(p))
}

// Render returns the screen as text with styling escapes.
func (e *Emulator) Render() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ""
	}
	return e.term.Render()
}

// Size returns the current grid.
func (e *Emulator) Size() port.GridSize {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}

// Dispose closes the terminal. Later calls are no-ops.
//
// Only the input pipe is closed here; the read loop closes the terminal once
// its pending Read returns. vt's Close must not overlap Read.
func (e *Emulator) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.disposed = true
	if c, ok := e.term.InputPipe().(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.logger.Debug().Err(err).Msg("emulator input close failed")
		}
	}
}

func (e *Emulator) readLoop() {
	defer close(e.readDone)
	defer e.closeTerm()

	buf := make([]byte, readBufferSize)
	for {
		n, err := e.term.Read(buf)
		if n > 0 {
			e.inputMu.Lock()
			fn := e.onInput
			e.inputMu.Unlock()
			if fn != nil {
				fn(append([]byte(nil), buf[:n]...))
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				e.logger.Debug().Err(err).Msg("emulator input closed")
			}
			return
		}
	}
}

func (e *Emulator) closeTerm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.term.Close(); err != nil {
		e.logger.Debug().Err(err).Msg("emulator close failed")
	}
}
