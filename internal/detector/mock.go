package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// OpenPalmLandmarks returns a right hand, palm to the camera, with all five
// fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: Right,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// FistLandmarks returns a right hand with every finger curled and the thumb
// folded across the palm.
func FistLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	tuckThumb(&landmarks)
	curl(&landmarks, IndexPIP, IndexDIP, IndexTip)
	curl(&landmarks, MiddlePIP, MiddleDIP, MiddleTip)
	curl(&landmarks, RingPIP, RingDIP, RingTip)
	curl(&landmarks, PinkyPIP, PinkyDIP, PinkyTip)
	return landmarks
}

// PeaceLandmarks returns a right hand showing index and middle fingers.
func PeaceLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	tuckThumb(&landmarks)
	curl(&landmarks, RingPIP, RingDIP, RingTip)
	curl(&landmarks, PinkyPIP, PinkyDIP, PinkyTip)
	return landmarks
}

// ThreeLandmarks returns a right hand showing thumb, index and middle fingers.
func ThreeLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	curl(&landmarks, RingPIP, RingDIP, RingTip)
	curl(&landmarks, PinkyPIP, PinkyDIP, PinkyTip)
	return landmarks
}

// Mirror reflects a hand across the vertical axis and swaps its handedness,
// turning a right hand fixture into the matching left hand.
func Mirror(h HandLandmarks) HandLandmarks {
	mirrored := h
	for i := range mirrored.Points {
		mirrored.Points[i].X = 1 - mirrored.Points[i].X
	}
	if h.Handedness == Right {
		mirrored.Handedness = Left
	} else {
		mirrored.Handedness = Right
	}
	return mirrored
}

// curl folds a finger so its tip sits below the PIP joint.
func curl(h *HandLandmarks, pip, dip, tip int) {
	base := h.Points[pip]
	h.Points[dip] = Point3D{X: base.X - 0.02, Y: base.Y + 0.03, Z: -0.04}
	h.Points[tip] = Point3D{X: base.X - 0.03, Y: base.Y + 0.06, Z: -0.02}
}

// tuckThumb folds a right thumb toward the palm so its tip is left of the MCP.
func tuckThumb(h *HandLandmarks) {
	mcp := h.Points[ThumbMCP]
	h.Points[ThumbIP] = Point3D{X: mcp.X - 0.03, Y: mcp.Y - 0.02, Z: 0.01}
	h.Points[ThumbTip] = Point3D{X: mcp.X - 0.07, Y: mcp.Y + 0.01, Z: 0.0}
}
