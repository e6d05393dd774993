// Package tray shows the running finger count in the system tray.
package tray

import (
	"fmt"
	"strings"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/fingers"
)

// Tray is a system tray indicator. It is an app.FrameSink: every observed
// frame updates the title with the frame total.
type Tray struct {
	onQuit  func()
	onOpen  func()
	mu      sync.RWMutex
	ready   bool
	current fingers.FrameCount

	menuHands *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnQuit sets the callback invoked when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// OnOpen sets the callback for the "Open live view" item. The item is only
// shown when a callback is set before Run.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// Run starts the system tray. It blocks until Stop or Quit, and must be
// called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Stop closes the tray and makes Run return.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTooltip("Finger Counter")

	t.mu.Lock()
	t.menuHands = systray.AddMenuItem(HandsLine(t.current), "Fingers per hand")
	t.menuHands.Disable()
	systray.SetTitle(Title(t.current))
	onOpen := t.onOpen
	t.ready = true
	t.mu.Unlock()

	systray.AddSeparator()

	var openCh chan struct{}
	if onOpen != nil {
		openCh = systray.AddMenuItem("Open live view", "Open the live view in a browser").ClickedCh
		systray.AddSeparator()
	}

	menuQuit := systray.AddMenuItem("Quit", "Quit Finger Counter")

	go func() {
		for {
			select {
			case <-openCh:
				onOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ready = false
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Observe implements app.FrameSink.
func (t *Tray) Observe(f app.Frame) {
	t.SetCount(f.Count)
}

// SetCount shows fc in the tray. Unchanged counts are not redrawn.
func (t *Tray) SetCount(fc fingers.FrameCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := Title(fc) != Title(t.current) || HandsLine(fc) != HandsLine(t.current)
	t.current = fc
	if !t.ready || !changed {
		return
	}

	systray.SetTitle(Title(fc))
	t.menuHands.SetTitle(HandsLine(fc))
}

// Current returns the last count passed to SetCount.
func (t *Tray) Current() fingers.FrameCount {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Title is the tray title for fc.
func Title(fc fingers.FrameCount) string {
	if !fc.Detected() {
		return "Fingers: -"
	}
	return fmt.Sprintf("Fingers: %d", fc.Total)
}

// HandsLine lists each hand's count, e.g. "Right 3, Left 2".
func HandsLine(fc fingers.FrameCount) string {
	if !fc.Detected() {
		return "No hands"
	}
	parts := make([]string, 0, len(fc.Hands))
	for _, h := range fc.Hands {
		parts = append(parts, fmt.Sprintf("%s %d", h.Handedness, h.Count))
	}
	return strings.Join(parts, ", ")
}
