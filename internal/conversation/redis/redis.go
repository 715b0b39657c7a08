// Package redis stores conversation history in Redis: one list of JSON
// messages per session plus a set of known session IDs.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"aiact/internal/domain"
)

// Options configure the Redis connection.
type Options struct {
	Address  string
	Password string
	DB       int
	// KeyPrefix namespaces every key written by the store.
	KeyPrefix string
	// TTL expires idle sessions. Zero keeps them forever.
	TTL time.Duration
}

func DefaultOptions() Options {
	return Options{
		Address:   "localhost:6379",
		KeyPrefix: "aiact",
	}
}

type Store struct {
	client *redis.Client
	opts   Options
	now    func() time.Time
}

// Open connects and pings the server.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultOptions().KeyPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Address, err)
	}
	return &Store{client: client, opts: opts, now: time.Now}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) sessionKey(sessionID string) string {
	return s.opts.KeyPrefix + ":conversation:" + sessionID
}

func (s *Store) sessionsKey() string { return s.opts.KeyPrefix + ":sessions" }

func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	payload, err := json.Marshal(domain.Message{Role: role, Content: content, Timestamp: s.now().UTC()})
	if err != nil {
		return err
	}
	key := s.sessionKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, payload)
		p.SAdd(ctx, s.sessionsKey(), sessionID)
		if s.opts.TTL > 0 {
			p.Expire(ctx, key, s.opts.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	raw, err := s.client.LRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]domain.Message, 0, len(raw))
	for _, r := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.sessionKey(sessionID))
		p.SRem(ctx, s.sessionsKey(), sessionID)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return del.Val() > 0, nil
}

// Sessions lists session IDs whose history has not expired.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.sessionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	live := ids[:0]
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.sessionKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			s.client.SRem(ctx, s.sessionsKey(), id)
			continue
		}
		live = append(live, id)
	}
	sort.Strings(live)
	return live, nil
}
