// Package redis implements the download counter on Redis hashes.
//
// Each disk owns two hashes keyed by file path: one holding the download
// count and one holding the time of the last download. The configured
// downloads table name is used as the key prefix:
//
//	<prefix>:count:<disk>  path -> count
//	<prefix>:last:<disk>   path -> RFC 3339 timestamp
package redis

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sagarc03/vdisk"
)

const (
	keyCount = "count"
	keyLast  = "last"
)

type database struct {
	cl     *goredis.Client
	prefix string
}

// Connect parses a redis:// URL and creates a client. No command is sent
// until Ping or the first counter operation.
func Connect(_ context.Context, url string, tables vdisk.Tables) (*database, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &database{
		cl:     goredis.NewClient(opt),
		prefix: tables.Downloads,
	}, nil
}

// Ping verifies the server is reachable.
func (d *database) Ping(ctx context.Context) error {
	if _, err := d.cl.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Migrate is a no-op; hashes are created on first write.
func (d *database) Migrate(_ context.Context) error {
	return nil
}

// Validate checks that every existing key under the prefix is a hash.
func (d *database) Validate(ctx context.Context) error {
	iter := d.cl.Scan(ctx, 0, d.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		kind, err := d.cl.Type(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("validate %s: %w", key, err)
		}
		if kind != "hash" && kind != "none" {
			return fmt.Errorf("validate %s: expected hash, got %s", key, kind)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("validate: scan: %w", err)
	}

	return nil
}

// GetCounter returns the DownloadCounter backed by this client.
func (d *database) GetCounter() vdisk.DownloadCounter {
	return &counter{cl: d.cl, prefix: d.prefix}
}

// Close closes the client.
func (d *database) Close() error {
	return d.cl.Close()
}

func getKey(parts ...string) string {
	return strings.Join(parts, ":")
}
