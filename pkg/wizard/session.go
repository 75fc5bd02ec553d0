package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-intake/pkg/flow"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("wizard: session not found")

// Session is the persisted unit: an id plus the flow snapshot.
type Session struct {
	ID        string        `json:"id"`
	Snapshot  flow.Snapshot `json:"snapshot"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SessionStore persists sessions. Load returns ErrSessionNotFound when id is
// unknown.
type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, session Session) error
}

// SubmitClaimer is implemented by session stores shared between processes.
// ClaimSubmit grants one caller per session the right to run the pipeline
// until release is called or the claim expires. A held claim is reported as
// flow.ErrSubmissionInFlight.
type SubmitClaimer interface {
	ClaimSubmit(ctx context.Context, id string) (release func(), err error)
}
