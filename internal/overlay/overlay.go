// Package overlay draws hand skeletons and finger counts onto frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

// Colors and text placement for the overlay.
var (
	PointColor = color.RGBA{G: 255, A: 255}
	LineColor  = color.RGBA{R: 255, G: 150, A: 255}
	HandColor  = color.RGBA{R: 255, A: 255}
	TotalColor = color.RGBA{G: 255, B: 255, A: 255}

	// HandLabelOffset moves the per-hand label up and left of the wrist.
	HandLabelOffset = image.Point{X: -40, Y: -20}
	// TotalOrigin is where the frame total is written.
	TotalOrigin = image.Point{X: 10, Y: 30}
)

const (
	pointRadius   = 2
	lineThickness = 2
	handScale     = 0.8
	totalScale    = 1.0
	textThickness = 2
)

// HandLabel is the text shown next to a hand.
func HandLabel(hc fingers.HandCount) string {
	return fmt.Sprintf("%s hand: %d", hc.Handedness, hc.Count)
}

// TotalLabel is the text shown for the whole frame.
func TotalLabel(fc fingers.FrameCount) string {
	return fmt.Sprintf("Total fingers: %d", fc.Total)
}

// HandLabelOrigin is the baseline origin of a hand's label.
func HandLabelOrigin(hc fingers.HandCount) image.Point {
	return hc.Wrist.Add(HandLabelOffset)
}

// Draw renders every hand's skeleton and count label, and the frame total
// when at least one hand was found. hands and fc must describe the same
// detections in the same order.
func Draw(img *gocv.Mat, hands []detector.HandLandmarks, fc fingers.FrameCount) {
	width, height := img.Cols(), img.Rows()

	for i, hand := range hands {
		DrawSkeleton(img, hand.Pixels(width, height))
		if i < len(fc.Hands) {
			drawText(img, HandLabel(fc.Hands[i]), HandLabelOrigin(fc.Hands[i]), handScale, HandColor)
		}
	}

	if fc.Detected() {
		drawText(img, TotalLabel(fc), TotalOrigin, totalScale, TotalColor)
	}
}

// DrawSkeleton joins the landmarks with lines and marks each point.
func DrawSkeleton(img *gocv.Mat, pts [detector.NumLandmarks]image.Point) {
	for _, c := range detector.Connections {
		gocv.Line(img, pts[c[0]], pts[c[1]], LineColor, lineThickness)
	}
	for _, p := range pts {
		gocv.Circle(img, p, pointRadius, PointColor, lineThickness)
	}
}

func drawText(img *gocv.Mat, text string, origin image.Point, scale float64, c color.RGBA) {
	gocv.PutTextWithParams(img, text, origin, gocv.FontHersheySimplex, scale, c, textThickness, gocv.LineAA, false)
}
