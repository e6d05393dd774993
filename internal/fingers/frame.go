package fingers

import (
	"image"

	"github.com/ayusman/fingercount/internal/detector"
)

// HandCount is the classification of one hand in a frame.
type HandCount struct {
	Handedness detector.Handedness `json:"handedness"`
	Count      int                 `json:"count"`
	State      State               `json:"fingers"`
	Wrist      image.Point         `json:"wrist"`
}

// FrameCount aggregates the hands seen in a single frame.
type FrameCount struct {
	Hands []HandCount `json:"hands"`
	Total int         `json:"total"`
}

// Detected reports whether at least one hand was seen.
func (fc FrameCount) Detected() bool {
	return len(fc.Hands) > 0
}

// CountFrame classifies each hand on its own and sums the counts. Nothing is
// carried between frames or between hands.
func CountFrame(hands []detector.HandLandmarks, width, height int) FrameCount {
	fc := FrameCount{Hands: make([]HandCount, 0, len(hands))}

	for _, hand := range hands {
		state := States(hand, width, height)
		hc := HandCount{
			Handedness: hand.Handedness,
			Count:      state.Count(),
			State:      state,
			Wrist:      hand.Points[detector.Wrist].Pixel(width, height),
		}
		fc.Hands = append(fc.Hands, hc)
		fc.Total += hc.Count
	}

	return fc
}
