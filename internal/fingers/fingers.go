// Package fingers classifies which fingers of a detected hand are extended.
//
// The rules are fixed heuristics over landmark positions and assume an
// upright hand facing the camera. The thumb is judged on the x axis using
// the detector's handedness label, the other four fingers on the y axis.
// A rotated hand or a mislabelled handedness gives wrong results; the label
// is trusted as reported.
package fingers

import (
	"strings"

	"github.com/ayusman/fingercount/internal/detector"
)

// Finger identifies one of the five fingers of a hand.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return "unknown"
	}
	return fingerNames[f]
}

// tipAndJoint pairs each non-thumb finger with its tip and PIP landmark.
var tipAndJoint = [NumFingers][2]int{
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// State records which fingers are extended, indexed by Finger.
type State [NumFingers]bool

// Count returns the number of extended fingers.
func (s State) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as e.g. "T I M - -".
func (s State) String() string {
	marks := make([]string, NumFingers)
	for f := Thumb; f < NumFingers; f++ {
		if s[f] {
			marks[f] = strings.ToUpper(f.String()[:1])
		} else {
			marks[f] = "-"
		}
	}
	return strings.Join(marks, " ")
}

// States classifies every finger of hand. Landmarks are compared in integer
// pixel space of a width x height frame.
func States(hand detector.HandLandmarks, width, height int) State {
	pts := hand.Pixels(width, height)

	var s State

	tip := pts[detector.ThumbTip].X
	base := pts[detector.ThumbMCP].X
	if hand.Handedness == detector.Right {
		s[Thumb] = tip > base
	} else {
		s[Thumb] = tip < base
	}

	for f := Index; f < NumFingers; f++ {
		ids := tipAndJoint[f]
		s[f] = pts[ids[0]].Y < pts[ids[1]].Y
	}

	return s
}

// Count returns how many fingers of hand are extended, in [0,5].
func Count(hand detector.HandLandmarks, width, height int) int {
	return States(hand, width, height).Count()
}
