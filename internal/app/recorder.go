package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/fingercount/internal/store"
)

// Recorder is a FrameSink that writes every frame's counts to a session in
// the store. Close finishes the session and logs its summary.
type Recorder struct {
	store   *store.Store
	session *store.Session
	log     logrus.FieldLogger
	failed  int
}

// NewRecorder starts a new session for camera.
func NewRecorder(s *store.Store, camera int, log logrus.FieldLogger) (*Recorder, error) {
	sess, err := s.Sessions().Create(camera)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	r := &Recorder{
		store:   s,
		session: sess,
		log:     log.WithField("session", sess.ID),
	}
	r.log.Info("Recording session")
	return r, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() *store.Session {
	return r.session
}

// Observe stores the frame's counts. Write failures are logged and the
// frame is skipped.
func (r *Recorder) Observe(f Frame) {
	rec := &store.FrameRecord{
		SessionID: r.session.ID,
		Seq:       f.Seq,
		Total:     f.Count.Total,
		Hands:     make([]store.HandRecord, 0, len(f.Count.Hands)),
	}
	for _, hc := range f.Count.Hands {
		rec.Hands = append(rec.Hands, store.HandRecord{
			Handedness: string(hc.Handedness),
			Count:      hc.Count,
			Fingers:    [5]bool(hc.State),
		})
	}

	if err := r.store.Frames().Record(rec); err != nil {
		r.failed++
		r.log.WithError(err).WithField("seq", f.Seq).Warn("Failed to record frame")
	}
}

// Close marks the session finished and logs its summary.
func (r *Recorder) Close() error {
	if err := r.store.Sessions().Finish(r.session.ID); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	sum, err := r.store.Sessions().Summary(r.session.ID)
	if err != nil {
		return fmt.Errorf("summarize session: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"frames":           sum.Frames,
		"frames_with_hand": sum.FramesWithHand,
		"max_total":        sum.MaxTotal,
		"mean_total":       fmt.Sprintf("%.2f", sum.MeanTotal),
		"stddev_total":     fmt.Sprintf("%.2f", sum.StdDevTotal),
		"failed":           r.failed,
	}).Info("Session finished")
	return nil
}
