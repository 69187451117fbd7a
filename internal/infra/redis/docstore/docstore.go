package infra_redis_docstore

import (
	"context"
	"strings"
	"sync"

	"github.com/go-redis/redis"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
)

// Store keeps each document in one Redis hash, field values JSON-encoded.
// Every mutation publishes a ping on the document's event channel and
// subscribers re-read the hash, so a callback always carries a state at
// least as new as the mutation that triggered it.
type Store struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) Write(ctx context.Context, key string, fields map[string]any) error {
	raw, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}

	sets := make(map[string]interface{}, len(raw))
	var dels []string
	for field, value := range raw {
		if value == nil {
			dels = append(dels, field)
			continue
		}
		sets[field] = string(value)
	}

	pipe := s.client.TxPipeline()
	if len(sets) > 0 {
		pipe.HMSet(s.fullKey(key), sets)
	}
	if len(dels) > 0 {
		pipe.HDel(s.fullKey(key), dels...)
	}
	if _, err := pipe.Exec(); err != nil {
		return err
	}

	return s.client.Publish(s.channel(key), "update").Err()
}

func (s *Store) Replace(ctx context.Context, key string, fields map[string]any) error {
	raw, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}

	sets := make(map[string]interface{}, len(raw))
	for field, value := range raw {
		if value == nil {
			continue
		}
		sets[field] = string(value)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(s.fullKey(key))
	if len(sets) > 0 {
		pipe.HMSet(s.fullKey(key), sets)
	}
	if _, err := pipe.Exec(); err != nil {
		return err
	}

	return s.client.Publish(s.channel(key), "update").Err()
}

func (s *Store) Load(ctx context.Context, key string) (docstore.Snapshot, bool, error) {
	values, err := s.client.HGetAll(s.fullKey(key)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		// A room document always carries at least its creation fields, so an
		// empty hash means the document does not exist.
		return docstore.Snapshot{}, false, nil
	}

	snap := make(docstore.Snapshot, len(values))
	for field, value := range values {
		snap[field] = []byte(value)
	}
	return snap, true, nil
}

func (s *Store) Subscribe(ctx context.Context, key string, fn func(docstore.Snapshot)) (docstore.Unsubscribe, error) {
	pubsub := s.client.Subscribe(s.channel(key))
	if _, err := pubsub.Receive(); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	deliver := func() {
		snap, _, err := s.Load(ctx, key)
		if err != nil {
			return
		}
		fn(snap)
	}

	go func() {
		deliver()
		for range pubsub.Channel() {
			deliver()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}, nil
}

func (s *Store) fullKey(key string) string {
	return s.prefix + ":" + strings.ReplaceAll(key, "/", ":")
}

func (s *Store) channel(key string) string {
	return s.fullKey(key) + ":events"
}
