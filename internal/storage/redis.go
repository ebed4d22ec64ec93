package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps blobs as Redis string values under a key prefix. It is a
// drop-in alternative to FSStore for deployments where the workspace is not
// a local filesystem.
type RedisStore struct {
	client  *redis.Client
	options *redis.Options
	prefix  string
	logger  zerolog.Logger
}

// NewRedisStore returns a store using the given connection options. All keys
// are namespaced under prefix.
func NewRedisStore(opts *redis.Options, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client:  redis.NewClient(opts),
		options: opts,
		prefix:  prefix,
		logger:  logger,
	}
}

// ensureConnection pings the server and reconnects if necessary.
func (s *RedisStore) ensureConnection(ctx context.Context) {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("storage reconnecting to Redis")
		s.client = redis.NewClient(s.options)
	}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

// ReadText reads a blob, returning ErrNotFound for missing keys.
func (s *RedisStore) ReadText(ctx context.Context, name string) (string, error) {
	s.ensureConnection(ctx)
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("storage: read %s: %w", name, err)
	}
	return val, nil
}

// WriteText writes a blob with no expiry.
func (s *RedisStore) WriteText(ctx context.Context, name, content string) error {
	s.ensureConnection(ctx)
	if err := s.client.Set(ctx, s.key(name), content, 0).Err(); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// DeleteText removes a blob, returning ErrNotFound for missing keys.
func (s *RedisStore) DeleteText(ctx context.Context, name string) error {
	s.ensureConnection(ctx)
	n, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
