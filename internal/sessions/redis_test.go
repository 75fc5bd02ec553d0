package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// fakeRedis implements the commands the store issues. Eval understands only
// the claim release script.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, held := f.values[key]; held {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key], _ = value.(string)
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if script != releaseClaim || len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, errors.New("unexpected eval"))
	}
	if f.values[keys[0]] != args[0] {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(f.values, keys[0])
	delete(f.ttls, keys[0])
	return redis.NewCmdResult(int64(1), nil)
}

func TestRedisRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	store := NewRedis(fake, 30*time.Minute)
	ctx := context.Background()

	want := sampleSession()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fake.ttls["intake:session:abc"] != 30*time.Minute {
		t.Fatalf("ttl not applied: %v", fake.ttls)
	}

	got, err := store.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want.Snapshot.State, got.Snapshot.State); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Snapshot.Answers.Map(), got.Snapshot.Answers.Map()); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("updated at = %v", got.UpdatedAt)
	}
}

func TestRedisMissingAndCorrupt(t *testing.T) {
	fake := newFakeRedis()
	store := NewRedis(fake, time.Minute)

	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, wizard.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	fake.values["intake:session:bad"] = "{not json"
	if _, err := store.Load(context.Background(), "bad"); err == nil || errors.Is(err, wizard.ErrSessionNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRedisClaimSubmitIsExclusive(t *testing.T) {
	fake := newFakeRedis()
	first := NewRedis(fake, time.Minute)
	second := NewRedis(fake, time.Minute)
	ctx := context.Background()

	release, err := first.ClaimSubmit(ctx, "abc")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if fake.ttls["intake:submit:abc"] != defaultClaimTTL {
		t.Fatalf("claim ttl not applied: %v", fake.ttls)
	}
	if _, err := second.ClaimSubmit(ctx, "abc"); !errors.Is(err, flow.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	release()
	if _, held := fake.values["intake:submit:abc"]; held {
		t.Fatalf("claim should be released")
	}
	again, err := second.ClaimSubmit(ctx, "abc")
	if err != nil {
		t.Fatalf("claim after release: %v", err)
	}

	// A stale release must not drop a claim that now belongs to someone else.
	release()
	if _, held := fake.values["intake:submit:abc"]; !held {
		t.Fatalf("stale release removed a live claim")
	}
	again()
}
