package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const signedURLPrefix = "signed_url:"

// SignedURLRepo caches presigned GET URLs per storage path. Presigning is a
// pure computation against the object store credentials, so a cache miss is
// never an error, just a recompute.
type SignedURLRepo struct {
	client *goredis.Client
}

func NewSignedURLRepo(client *goredis.Client) *SignedURLRepo {
	return &SignedURLRepo{client: client}
}

func (r *SignedURLRepo) Get(ctx context.Context, storagePath string) (string, bool, error) {
	if r.client == nil {
		return "", false, fmt.Errorf("redis client is nil")
	}
	if storagePath == "" {
		return "", false, nil
	}

	url, err := r.client.Get(ctx, signedURLKey(storagePath)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get cached signed url: %w", err)
	}

	return url, true, nil
}

// Set stores the URL with a TTL strictly shorter than the presign expiry, so
// a cached URL is always still valid when handed out.
func (r *SignedURLRepo) Set(ctx context.Context, storagePath, url string, presignTTL time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if storagePath == "" || url == "" || presignTTL <= 0 {
		return fmt.Errorf("invalid signed url cache payload")
	}

	cacheTTL := presignTTL / 2
	if cacheTTL < time.Second {
		cacheTTL = time.Second
	}

	if err := r.client.Set(ctx, signedURLKey(storagePath), url, cacheTTL).Err(); err != nil {
		return fmt.Errorf("cache signed url: %w", err)
	}

	return nil
}

// Invalidate drops the cached URL, used when content is replaced or deleted.
func (r *SignedURLRepo) Invalidate(ctx context.Context, storagePath string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if storagePath == "" {
		return nil
	}

	if err := r.client.Del(ctx, signedURLKey(storagePath)).Err(); err != nil {
		return fmt.Errorf("invalidate signed url: %w", err)
	}

	return nil
}

func signedURLKey(storagePath string) string {
	return signedURLPrefix + storagePath
}
