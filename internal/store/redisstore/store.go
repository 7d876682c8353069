package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hmcleod/gamelobby/internal/store"
)

// transformRetries caps optimistic Transform attempts before giving up
const transformRetries = 64

var errTransformContention = errors.New("transform retries exhausted")

// errRelocate signals that the watched document no longer matches the
// query and the transform must re-locate it
var errRelocate = errors.New("document moved under transform")

// Store is a Redis-backed implementation of the store interface.
// Each document is one JSON value; a per-collection list index keeps
// document keys in insertion order. Queries are evaluated client-side
// after an MGET, which is fine for the expected volumes.
type Store struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger

	monitorStop chan struct{}
	monitorDone chan struct{}
}

// New creates a new Redis store instance. A failed initial connection
// is returned as an error and treated as fatal by the caller; once
// connected, a monitor goroutine logs and retries on disconnect
// forever instead of surfacing the failure.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	s := &Store{
		client:      client,
		cfg:         cfg,
		logger:      logger,
		monitorStop: make(chan struct{}),
		monitorDone: make(chan struct{}),
	}
	go s.monitor()

	return s, nil
}

// NewWithClient creates a Redis store with an existing client (for
// testing). No connection monitor is started.
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Close stops the connection monitor and closes the Redis connection
func (s *Store) Close() error {
	if s.monitorStop != nil {
		close(s.monitorStop)
		<-s.monitorDone
	}
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// monitor pings the server on a fixed interval. On failure it logs and
// keeps retrying with a fixed delay until the connection comes back.
func (s *Store) monitor() {
	defer close(s.monitorDone)

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.monitorStop:
			return
		case <-ticker.C:
		}

		if err := s.ping(); err == nil {
			continue
		}

		s.logger.Error("redis connection lost, retrying",
			slog.Duration("delay", s.cfg.ReconnectDelay))

		for {
			select {
			case <-s.monitorStop:
				return
			case <-time.After(s.cfg.ReconnectDelay):
			}

			err := s.ping()
			if err == nil {
				s.logger.Info("redis connection restored")
				break
			}
			s.logger.Error("redis reconnect attempt failed",
				slog.String("error", err.Error()),
				slog.Duration("delay", s.cfg.ReconnectDelay))
		}
	}
}

func (s *Store) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// loadCollection fetches every document in a collection, in insertion
// order. Index entries whose document has vanished are skipped.
func (s *Store) loadCollection(ctx context.Context, collection string) ([]store.Document, error) {
	keys, err := s.client.LRange(ctx, collectionIndexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []store.Document{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var doc store.Document
		if err := json.Unmarshal([]byte(val.(string)), &doc); err != nil {
			continue // Skip invalid data
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) Find(ctx context.Context, collection string, query store.Query, opts store.FindOptions) ([]store.Document, error) {
	docs, err := s.loadCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	results := []store.Document{}
	for _, doc := range docs {
		if query.Matches(doc) {
			results = append(results, doc)
		}
	}
	return store.ApplyOptions(results, opts), nil
}

func (s *Store) FindOne(ctx context.Context, collection string, query store.Query) (store.Document, error) {
	docs, err := s.loadCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if query.Matches(doc) {
			return doc, nil
		}
	}
	return nil, store.ErrNoDocument
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) (store.Document, error) {
	stored := make(store.Document, len(doc)+1)
	for key, value := range doc {
		stored[key] = value
	}
	if _, ok := stored[store.PrimaryKey]; !ok {
		stored[store.PrimaryKey] = uuid.NewString()
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}

	id, _ := stored[store.PrimaryKey].(string)
	key := docKey(collection, id)

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.RPush(ctx, collectionIndexKey(collection), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	// Hand back a normalized copy so both backends return identical
	// value types
	var out store.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection string, query store.Query, fields store.Document) (int, error) {
	docs, err := s.loadCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	pipe := s.client.Pipeline()
	count := 0
	for _, doc := range docs {
		if !query.Matches(doc) {
			continue
		}
		for key, value := range fields {
			doc[key] = value
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return 0, err
		}
		id, _ := doc[store.PrimaryKey].(string)
		pipe.Set(ctx, docKey(collection, id), data, 0)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, collection string, query store.Query) (int, error) {
	docs, err := s.loadCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	indexKey := collectionIndexKey(collection)
	pipe := s.client.Pipeline()
	count := 0
	for _, doc := range docs {
		if !query.Matches(doc) {
			continue
		}
		id, _ := doc[store.PrimaryKey].(string)
		key := docKey(collection, id)
		pipe.Del(ctx, key)
		pipe.LRem(ctx, indexKey, 0, key)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Transform(ctx context.Context, collection string, query store.Query, fn store.TransformFunc) (store.Document, error) {
	for attempt := 0; attempt < transformRetries; attempt++ {
		target, err := s.FindOne(ctx, collection, query)
		if err != nil {
			return nil, err
		}
		id, _ := target[store.PrimaryKey].(string)
		key := docKey(collection, id)

		var result store.Document
		err = s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return errRelocate
				}
				return err
			}

			var doc store.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}
			// The document may have been mutated since FindOne;
			// re-check it still matches
			if !query.Matches(doc) {
				return errRelocate
			}

			updated, err := fn(doc)
			if err != nil {
				return err
			}
			updated[store.PrimaryKey] = id

			encoded, err := json.Marshal(updated)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			if err != nil {
				return err
			}

			if err := json.Unmarshal(encoded, &result); err != nil {
				return err
			}
			return nil
		}, key)

		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, redis.TxFailedErr), errors.Is(err, errRelocate):
			continue
		default:
			return nil, err
		}
	}
	return nil, errTransformContention
}

func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
