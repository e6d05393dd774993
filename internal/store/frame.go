package store

import (
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HandRecord is the stored classification of one hand.
type HandRecord struct {
	Handedness string  `json:"handedness"`
	Count      int     `json:"count"`
	Fingers    [5]bool `json:"fingers"`
}

// FrameRecord is the stored result for one processed frame.
type FrameRecord struct {
	SessionID string       `json:"session_id"`
	Seq       int64        `json:"seq"`
	Total     int          `json:"total"`
	Hands     []HandRecord `json:"hands"`
}

// FrameRepository stores per-frame counts.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Record inserts one frame result.
func (r *FrameRepository) Record(f *FrameRecord) error {
	hands := f.Hands
	if hands == nil {
		hands = []HandRecord{}
	}
	data, err := json.Marshal(hands)
	if err != nil {
		return fmt.Errorf("encode hands: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO frame_counts (session_id, seq, total, hand_count, hands) VALUES (?, ?, ?, ?, ?)`,
		f.SessionID, f.Seq, f.Total, len(hands), string(data),
	)
	return err
}

// ListBySession returns a session's frames in capture order.
func (r *FrameRepository) ListBySession(sessionID string) ([]FrameRecord, error) {
	rows, err := r.db.Query(
		`SELECT session_id, seq, total, hands
		 FROM frame_counts
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []FrameRecord
	for rows.Next() {
		var f FrameRecord
		var hands string
		if err := rows.Scan(&f.SessionID, &f.Seq, &f.Total, &hands); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(hands), &f.Hands); err != nil {
			return nil, fmt.Errorf("decode hands for frame %d: %w", f.Seq, err)
		}
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}
