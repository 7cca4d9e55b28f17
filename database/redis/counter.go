package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sagarc03/vdisk"
)

type counter struct {
	cl     *goredis.Client
	prefix string
}

func (c *counter) Increment(ctx context.Context, disk, path string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var incr *goredis.IntCmd
	_, err := c.cl.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, getKey(c.prefix, keyCount, disk), path, 1)
		pipe.HSet(ctx, getKey(c.prefix, keyLast, disk), path, now)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cannot increment %s counter: %w", path, err)
	}

	return incr.Val(), nil
}

func (c *counter) List(ctx context.Context, disk string) ([]vdisk.DownloadCount, error) {
	counts, err := c.cl.HGetAll(ctx, getKey(c.prefix, keyCount, disk)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	last, err := c.cl.HGetAll(ctx, getKey(c.prefix, keyLast, disk)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("cannot get last downloads: %w", err)
	}

	result := make([]vdisk.DownloadCount, 0, len(counts))
	for path, raw := range counts {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Warn("cannot parse download counter", "disk", disk, "path", path, "err", err)
			continue
		}

		dc := vdisk.DownloadCount{Path: path, Count: n}
		if ts, ok := last[path]; ok {
			if dc.LastDownloadedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
				slog.Warn("cannot parse last download time", "disk", disk, "path", path, "err", err)
			}
		}

		result = append(result, dc)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })

	return result, nil
}

var _ vdisk.DownloadCounter = (*counter)(nil)
