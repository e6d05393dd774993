package app

import (
	"gocv.io/x/gocv"
)

// Window title and the key that ends the loop.
const (
	WindowTitle = "Finger Counter (q to quit)"
	QuitKey     = 'q'
)

// Display shows annotated frames and reports key presses.
type Display interface {
	Show(frame *gocv.Mat)
	// WaitKey waits up to delay milliseconds and returns the pressed key,
	// or -1 when none was pressed.
	WaitKey(delay int) int
	Close() error
}

type windowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a desktop window with the given title.
func NewWindowDisplay(title string) Display {
	return &windowDisplay{window: gocv.NewWindow(title)}
}

func (d *windowDisplay) Show(frame *gocv.Mat) {
	d.window.IMShow(*frame)
}

func (d *windowDisplay) WaitKey(delay int) int {
	return d.window.WaitKey(delay)
}

func (d *windowDisplay) Close() error {
	return d.window.Close()
}

type headlessDisplay struct{}

// NewHeadlessDisplay returns a Display that shows nothing and never
// reports a key.
func NewHeadlessDisplay() Display {
	return headlessDisplay{}
}

func (headlessDisplay) Show(*gocv.Mat)  {}
func (headlessDisplay) WaitKey(int) int { return -1 }
func (headlessDisplay) Close() error    { return nil }
