package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/overlay"
)

// Run processes frames until the quit key is pressed, the camera stops
// delivering frames or ctx is cancelled. Each iteration reads a frame,
// mirrors it, detects hands, counts fingers, draws the overlay, feeds the
// sinks and shows the result. The camera, detector and display are closed
// before Run returns.
//
// Run returns an error wrapping ErrCaptureUnavailable when the camera
// cannot be opened; every other stop condition returns nil.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if a.detector == nil {
			return
		}
		if err := a.detector.Close(); err != nil {
			a.log.WithError(err).Warn("Error closing detector")
		}
	}()
	defer a.closeSinks()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			a.log.WithError(err).Warn("Error closing camera")
		}
	}()

	display := a.display
	if display == nil {
		if a.config.Headless {
			display = NewHeadlessDisplay()
		} else {
			display = NewWindowDisplay(WindowTitle)
		}
	}
	defer func() {
		if err := display.Close(); err != nil {
			a.log.WithError(err).Warn("Error closing display")
		}
	}()

	a.log.Info("Detection pipeline started")
	defer a.log.Info("Detection pipeline stopped")

	lastTotal := -1
	for seq := int64(0); ; seq++ {
		if ctx.Err() != nil {
			a.log.Debug("Context cancelled")
			return nil
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			a.log.WithError(err).Info("Camera stopped delivering frames")
			return nil
		}

		fc := a.ProcessFrame(frame)
		if fc.Total != lastTotal {
			a.log.WithFields(logrus.Fields{
				"hands": len(fc.Hands),
				"total": fc.Total,
			}).Debug("Finger count changed")
			lastTotal = fc.Total
		}

		a.publish(seq, frame, fc)
		display.Show(frame)
		frame.Close()

		if display.WaitKey(1)&0xFF == QuitKey {
			a.log.Debug("Quit key pressed")
			return nil
		}
	}
}

// ProcessFrame mirrors the frame when configured, detects hands, counts
// their fingers and draws the overlay onto frame. A detector error is
// logged and the frame is treated as having no hands.
func (a *App) ProcessFrame(frame *gocv.Mat) fingers.FrameCount {
	if a.config.Mirror {
		capture.Mirror(frame)
	}

	var hands []detector.HandLandmarks
	if a.detector != nil {
		var err error
		hands, err = a.detector.Detect(frame)
		if err != nil {
			a.log.WithError(err).Warn("Error detecting hands")
			hands = nil
		}
	}

	fc := fingers.CountFrame(hands, frame.Cols(), frame.Rows())
	overlay.Draw(frame, hands, fc)
	return fc
}

func (a *App) publish(seq int64, frame *gocv.Mat, fc fingers.FrameCount) {
	if len(a.sinks) == 0 {
		return
	}

	f := Frame{Seq: seq, At: time.Now(), Count: fc}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.WithError(err).Warn("Error encoding frame")
	} else {
		f.JPEG = bytes.Clone(buf.GetBytes())
		buf.Close()
	}

	for _, s := range a.sinks {
		s.Observe(f)
	}
}
