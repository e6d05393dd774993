package store

import (
	"errors"
	"math"
	"testing"
)

func TestSessions_CreateGetFinish(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Create(2)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected generated session ID")
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Camera != 2 {
		t.Errorf("Camera = %d, want 2", got.Camera)
	}
	if got.EndedAt != nil {
		t.Error("new session should not have an end time")
	}

	if err := s.Sessions().Finish(sess.ID); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err = s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil {
		t.Error("finished session should have an end time")
	}
}

func TestSessions_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := s.Sessions().Finish("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Sessions().Summary("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Summary() error = %v, want ErrNotFound", err)
	}
}

func TestSessions_List(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Sessions().Create(i); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(sessions))
	}
}

func TestSessions_Summary(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Create(0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	frames := []FrameRecord{
		{Seq: 0, Total: 0},
		{Seq: 1, Total: 3, Hands: []HandRecord{{Handedness: "Right", Count: 3}}},
		{Seq: 2, Total: 5, Hands: []HandRecord{{Handedness: "Right", Count: 3}, {Handedness: "Left", Count: 2}}},
		{Seq: 3, Total: 0, Hands: []HandRecord{{Handedness: "Left", Count: 0}}},
	}
	for i := range frames {
		frames[i].SessionID = sess.ID
		if err := s.Frames().Record(&frames[i]); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	sum, err := s.Sessions().Summary(sess.ID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if sum.Frames != 4 {
		t.Errorf("Frames = %d, want 4", sum.Frames)
	}
	if sum.FramesWithHand != 3 {
		t.Errorf("FramesWithHand = %d, want 3", sum.FramesWithHand)
	}
	if sum.MaxTotal != 5 {
		t.Errorf("MaxTotal = %d, want 5", sum.MaxTotal)
	}
	// totals over frames with hands: 3, 5, 0
	if math.Abs(sum.MeanTotal-8.0/3.0) > 1e-9 {
		t.Errorf("MeanTotal = %f, want %f", sum.MeanTotal, 8.0/3.0)
	}
	if math.Abs(sum.StdDevTotal-math.Sqrt(19.0/3.0)) > 1e-9 {
		t.Errorf("StdDevTotal = %f, want %f", sum.StdDevTotal, math.Sqrt(19.0/3.0))
	}
}

func TestSessions_SummarySingleFrame(t *testing.T) {
	s := newTestStore(t)

	sess, _ := s.Sessions().Create(0)
	s.Frames().Record(&FrameRecord{SessionID: sess.ID, Seq: 0, Total: 4, Hands: []HandRecord{{Count: 4}}})

	sum, err := s.Sessions().Summary(sess.ID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.MeanTotal != 4 || sum.StdDevTotal != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}
