package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/wizard"
)

const (
	defaultKeyPrefix   = "intake:session:"
	defaultClaimPrefix = "intake:submit:"
	defaultClaimTTL    = 2 * time.Minute
)

// releaseClaim deletes the claim only while it still holds our token.
const releaseClaim = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`

// Redis stores sessions as JSON strings with a TTL.
type Redis struct {
	client   redis.Cmdable
	ttl      time.Duration
	prefix   string
	claimTTL time.Duration
}

var (
	_ wizard.SessionStore  = (*Redis)(nil)
	_ wizard.SubmitClaimer = (*Redis)(nil)
)

// NewRedis wraps an existing client.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: defaultKeyPrefix, claimTTL: defaultClaimTTL}
}

// Dial parses url, connects and pings.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("sessions: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sessions: redis ping: %w", err)
	}
	return client, nil
}

func (r *Redis) Load(ctx context.Context, id string) (wizard.Session, error) {
	raw, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.Session{}, wizard.ErrSessionNotFound
	}
	if err != nil {
		return wizard.Session{}, fmt.Errorf("sessions: redis get: %w", err)
	}
	var session wizard.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return wizard.Session{}, fmt.Errorf("sessions: decode %s: %w", id, err)
	}
	return session, nil
}

func (r *Redis) Save(ctx context.Context, session wizard.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("sessions: encode %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, r.prefix+session.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("sessions: redis set: %w", err)
	}
	return nil
}

// ClaimSubmit takes a SET NX lock so that only one process sharing this
// Redis moves a session into submission. The lock expires after claimTTL if
// its holder dies.
func (r *Redis) ClaimSubmit(ctx context.Context, id string) (func(), error) {
	key := defaultClaimPrefix + id
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, r.claimTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("sessions: redis claim: %w", err)
	}
	if !ok {
		return nil, flow.ErrSubmissionInFlight
	}
	release := func() {
		_ = r.client.Eval(context.WithoutCancel(ctx), releaseClaim, []string{key}, token).Err()
	}
	return release, nil
}
