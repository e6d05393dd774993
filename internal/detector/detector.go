package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands limits how many hands are tracked at once (default: 2).
	MaxHands int `validate:"gte=1,lte=4"`

	// MinDetectionConfidence rejects palm candidates below this score (0.0-1.0).
	MinDetectionConfidence float64 `validate:"gte=0,lte=1"`

	// MinTrackingConfidence rejects tracked landmarks below this score (0.0-1.0).
	MinTrackingConfidence float64 `validate:"gte=0,lte=1"`

	// ModelComplexity selects the landmark model (0 lite, 1 full).
	ModelComplexity int `validate:"gte=0,lte=1"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:               2,
		MinDetectionConfidence: 0.6,
		MinTrackingConfidence:  0.6,
		ModelComplexity:        1,
	}
}

// Args renders the config as command line flags for the MediaPipe service.
func (c Config) Args() []string {
	return []string{
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(c.MinDetectionConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConfidence, 'f', -1, 64),
		"--model-complexity", strconv.Itoa(c.ModelComplexity),
	}
}
