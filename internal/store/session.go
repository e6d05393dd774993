package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session is one run of the counter against a camera.
type Session struct {
	ID        string     `json:"id"`
	Camera    int        `json:"camera"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Summary aggregates the frames recorded for a session.
type Summary struct {
	SessionID      string  `json:"session_id"`
	Frames         int     `json:"frames"`
	FramesWithHand int     `json:"frames_with_hand"`
	MaxTotal       int     `json:"max_total"`
	MeanTotal      float64 `json:"mean_total"`
	StdDevTotal    float64 `json:"stddev_total"`
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create starts a new session for camera and returns it with a fresh ID.
func (r *SessionRepository) Create(camera int) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Camera:    camera,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, camera, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Camera, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Finish stamps the end time of a session.
func (r *SessionRepository) Finish(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, camera, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Camera, &sess.StartedAt, &ended)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, camera, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Camera, &sess.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Summary computes frame statistics for a session. Mean and standard
// deviation cover frames where at least one hand was seen.
func (r *SessionRepository) Summary(id string) (*Summary, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT total, hand_count FROM frame_counts WHERE session_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sum := &Summary{SessionID: id}
	var totals []float64
	for rows.Next() {
		var total, handCount int
		if err := rows.Scan(&total, &handCount); err != nil {
			return nil, err
		}
		sum.Frames++
		if handCount > 0 {
			sum.FramesWithHand++
			totals = append(totals, float64(total))
		}
		if total > sum.MaxTotal {
			sum.MaxTotal = total
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(totals) > 0 {
		sum.MeanTotal, sum.StdDevTotal = stat.MeanStdDev(totals, nil)
	}
	if len(totals) < 2 {
		sum.StdDevTotal = 0
	}

	return sum, nil
}
