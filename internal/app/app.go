// Package app runs the finger counting pipeline: capture, detection,
// classification, overlay and display.
package app

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

// ErrCaptureUnavailable is returned by Run when the camera cannot be opened.
var ErrCaptureUnavailable = errors.New("could not open webcam")

// Config holds configuration options for the application.
type Config struct {
	Capture  capture.Config
	Detector detector.Config
	// Mirror flips each frame horizontally before detection.
	Mirror bool
	// Headless runs without a display window.
	Headless bool
}

// Frame is what sinks receive for every processed frame. JPEG holds the
// annotated image and is never modified after delivery.
type Frame struct {
	Seq   int64
	At    time.Time
	JPEG  []byte
	Count fingers.FrameCount
}

// FrameSink consumes processed frames. Observe is called from the pipeline
// goroutine and must not block for long.
type FrameSink interface {
	Observe(f Frame)
}

// App is the finger counter. It owns the camera, the detector and the
// display for the duration of Run.
type App struct {
	config   Config
	log      logrus.FieldLogger
	camera   capture.Camera
	detector detector.Detector
	display  Display
	sinks    []FrameSink
}

// New creates an App for the configured camera. MediaPipe is used when its
// service script can be found, otherwise a mock detector that never sees a
// hand.
func New(config Config, log logrus.FieldLogger) *App {
	a := &App{
		config: config,
		log:    log.WithField("component", "app"),
		camera: capture.NewCamera(config.Capture),
	}

	if mp, err := detector.NewMediaPipeDetector(config.Detector, log); err == nil {
		a.detector = mp
		a.log.Info("Using MediaPipe hand detection")
	} else {
		a.log.WithError(err).Warn("MediaPipe not available, using mock detector")
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetCamera replaces the capture source. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.camera = c
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.detector = d
}

// SetDisplay overrides the display chosen by Run.
func (a *App) SetDisplay(d Display) {
	a.display = d
}

// AddSink registers a consumer of processed frames.
func (a *App) AddSink(s FrameSink) {
	a.sinks = append(a.sinks, s)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

func (a *App) closeSinks() {
	for _, s := range a.sinks {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.WithError(err).Warn("Error closing sink")
		}
	}
}
