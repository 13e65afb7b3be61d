// Package session provides named exploration sessions.
//
// A session remembers the last frame of an exploration: the build params,
// the layout engine, and the positions the user last saw. Feeding those
// positions back into the pipeline as the previous frame keeps successive
// CLI invocations and explore runs visually continuous, even across
// processes.
//
// # Architecture
//
// Sessions are stored as JSON files in a config directory, keyed by a
// user-chosen name. The Store interface supports:
//   - Get/Set/Delete operations
//   - Listing stored session names
//
// Sessions never expire; they persist until deleted.
//
// # Usage
//
// Create a store and record frames:
//
//	store, err := session.NewFileStore("")  // Uses ~/.config/flockview/sessions/
//	if err != nil {
//	    return err
//	}
//
//	// Load the previous frame, if any
//	sess, err := store.Get(ctx, "tpot-core")
//	if errors.Is(err, session.ErrNotFound) {
//	    sess = session.New("tpot-core", opts.Params, opts.Engine)
//	}
//
//	// ... run the pipeline with sess.Positions as the previous frame ...
//
//	sess.Record(result.Positions, result.ViewHash)
//	store.Set(ctx, sess)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
)

// Session stores the last frame of a named exploration.
type Session struct {
	Name string `json:"name"`

	// Params and Engine reproduce the pipeline configuration of the
	// recorded frame.
	Params view.Params `json:"params"`
	Engine string      `json:"engine,omitempty"`

	// SnapshotPath remembers where the snapshot was loaded from, for
	// re-running the session without repeating flags.
	SnapshotPath string `json:"snapshotPath,omitempty"`

	// Positions is the frame to align the next build against.
	Positions layout.PositionMap `json:"positions,omitempty"`

	// ViewHash is the content hash of the view behind Positions.
	ViewHash string `json:"viewHash,omitempty"`

	// Frames counts recorded pipeline runs.
	Frames int `json:"frames"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Record captures the latest frame.
func (s *Session) Record(positions layout.PositionMap, viewHash string) {
	s.Positions = positions
	s.ViewHash = viewHash
	s.Frames++
	s.UpdatedAt = time.Now()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by name.
	// Returns ErrNotFound if the session doesn't exist.
	Get(ctx context.Context, name string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns stored session names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// New creates a session with the given name and pipeline configuration.
func New(name string, params view.Params, engine string) *Session {
	now := time.Now()
	return &Session{
		Name:      name,
		Params:    params,
		Engine:    engine,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
