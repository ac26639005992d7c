package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// Client is the subset of redis commands the store issues. *redis.Client satisfies it.
type Client interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// Options configures the redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store keeps live assignments in redis: one hash per week, one field per slot
type Store struct {
	client Client
	prefix string
}

// New connects to redis and checks the connection
func New(ctx context.Context, opts Options) (*Store, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	return NewStore(rdb, opts.Prefix), rdb, nil
}

// NewStore wraps an existing client
func NewStore(client Client, prefix string) *Store {
	if prefix == "" {
		prefix = "assignments"
	}
	return &Store{client: client, prefix: prefix}
}

// entry is the JSON value stored per slot
type entry struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"person_id"`
	Code       string    `json:"code"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *Store) weeksKey() string {
	return s.prefix + ":weeks"
}

func (s *Store) weekKey(week model.Date) string {
	return s.prefix + ":week:" + week.String()
}

// GetAssignments retrieves the live assignment of every slot
func (s *Store) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	weeks, err := s.client.SMembers(ctx, s.weeksKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	sort.Strings(weeks)

	var out []db.Assignment
	for _, w := range weeks {
		week, err := model.ParseDate(w)
		if err != nil {
			return nil, fmt.Errorf("invalid week key %q: %w", w, err)
		}

		fields, err := s.client.HGetAll(ctx, s.weekKey(week)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read week %s: %w", w, err)
		}

		slots := make([]string, 0, len(fields))
		for slot := range fields {
			slots = append(slots, slot)
		}
		sort.Strings(slots)

		for _, slot := range slots {
			var e entry
			if err := json.Unmarshal([]byte(fields[slot]), &e); err != nil {
				return nil, fmt.Errorf("failed to decode %s %s: %w", w, slot, err)
			}
			out = append(out, db.Assignment{
				ID:         e.ID,
				Week:       week,
				Slot:       slot,
				PersonID:   e.PersonID,
				Code:       e.Code,
				RecordedAt: e.RecordedAt,
			})
		}
	}

	return out, nil
}

// SaveAssignment sets the slot's assignment, or removes it when the row has no
// person. A write older than the stored one fails with db.ErrStaleWrite.
func (s *Store) SaveAssignment(ctx context.Context, a *db.Assignment) error {
	if a.Week.IsZero() || a.Slot == "" {
		return fmt.Errorf("assignment needs a week and a slot")
	}

	week := a.Week.Monday()
	key := s.weekKey(week)

	current, err := s.current(ctx, key, a.Slot)
	if err != nil {
		return err
	}
	if current != nil && current.RecordedAt.After(a.RecordedAt) {
		return fmt.Errorf("save of %s %s: %w", week, a.Slot, db.ErrStaleWrite)
	}

	if a.PersonID == "" {
		if err := s.client.HDel(ctx, key, a.Slot).Err(); err != nil {
			return fmt.Errorf("failed to clear assignment: %w", err)
		}
		return nil
	}

	value, err := json.Marshal(entry{
		ID:         a.ID,
		PersonID:   a.PersonID,
		Code:       a.Code,
		RecordedAt: a.RecordedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode assignment: %w", err)
	}

	if err := s.client.HSet(ctx, key, a.Slot, string(value)).Err(); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	if err := s.client.SAdd(ctx, s.weeksKey(), week.String()).Err(); err != nil {
		return fmt.Errorf("failed to index week: %w", err)
	}

	return nil
}

func (s *Store) current(ctx context.Context, key, slot string) (*entry, error) {
	raw, err := s.client.HGet(ctx, key, slot).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment: %w", err)
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("failed to decode assignment: %w", err)
	}
	return &e, nil
}
