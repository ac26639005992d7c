package redisstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

var _ db.AssignmentStore = (*Store)(nil)

// fakeRedis keeps hashes and sets in memory
type fakeRedis struct {
	hashes  map[string]map[string]string
	sets    map[string]map[string]bool
	hsetErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	out := make(map[string]string)
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *fakeRedis) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	v, ok := f.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.hsetErr != nil {
		return redis.NewIntResult(0, f.hsetErr)
	}
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeRedis) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	var n int64
	for _, field := range fields {
		if _, ok := f.hashes[key][field]; ok {
			delete(f.hashes[key], field)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]bool)
	}
	for _, m := range members {
		f.sets[key][fmt.Sprint(m)] = true
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedis) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return redis.NewStringSliceResult(out, nil)
}

func assignment(week, slot, person string, at time.Time) *db.Assignment {
	return &db.Assignment{
		ID:         slot + "-" + person,
		Week:       model.MustParseDate(week),
		Slot:       slot,
		PersonID:   person,
		Code:       slot,
		RecordedAt: at,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	fake := newFakeRedis()
	store := NewStore(fake, "test")
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/11", "WM_Chairman", "carl", at)))
	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/04", "WM_OpeningPrayer", "bob", at)))
	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "bob", at)))

	assert.Contains(t, fake.hashes, "test:week:2024/03/04")
	assert.True(t, fake.sets["test:weeks"]["2024/03/11"])

	got, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024/03/04", got[0].Week.String())
	assert.Equal(t, "WM_Chairman", got[0].Slot)
	assert.Equal(t, "bob", got[0].PersonID)
	assert.Equal(t, at, got[0].RecordedAt)
	assert.Equal(t, "WM_OpeningPrayer", got[1].Slot)
	assert.Equal(t, "2024/03/11", got[2].Week.String())
}

func TestStore_WeekNormalisedToMonday(t *testing.T) {
	fake := newFakeRedis()
	store := NewStore(fake, "")
	ctx := context.Background()

	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/09", "WM_Chairman", "bob", time.Now())))
	assert.Contains(t, fake.hashes, "assignments:week:2024/03/04")
}

func TestStore_ReplaceAndClear(t *testing.T) {
	store := NewStore(newFakeRedis(), "test")
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "bob", at)))
	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "carl", at.Add(time.Minute))))

	got, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "carl", got[0].PersonID)

	// A stale write loses and says so
	err = store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "dan", at))
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStaleWrite)

	err = store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "", at))
	assert.ErrorIs(t, err, db.ErrStaleWrite)

	got, err = store.GetAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "carl", got[0].PersonID)

	require.NoError(t, store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "", at.Add(time.Hour))))
	got, err = store.GetAssignments(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Errors(t *testing.T) {
	fake := newFakeRedis()
	store := NewStore(fake, "test")
	ctx := context.Background()

	err := store.SaveAssignment(ctx, &db.Assignment{Slot: "WM_Chairman", PersonID: "bob"})
	assert.Error(t, err)

	fake.hsetErr = errors.New("connection refused")
	err = store.SaveAssignment(ctx, assignment("2024/03/04", "WM_Chairman", "bob", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save assignment")

	fake.hashes["test:week:2024/03/04"] = map[string]string{"WM_Chairman": "{not json"}
	fake.sets["test:weeks"] = map[string]bool{"2024/03/04": true}
	_, err = store.GetAssignments(ctx)
	assert.Error(t, err)
}
