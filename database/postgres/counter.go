package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/vdisk"
)

// counter stores one row per downloaded file. tableName is already sanitized.
type counter struct {
	pool      *pgxpool.Pool
	tableName string
}

func (c *counter) Increment(ctx context.Context, disk, path string) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s AS d (disk, path, download_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (disk, path) DO UPDATE
		SET download_count = d.download_count + 1,
			last_downloaded_at = NOW()
		RETURNING d.download_count
	`, c.tableName)

	var count int64
	if err := c.pool.QueryRow(ctx, query, disk, path).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment: %w", err)
	}

	return count, nil
}

func (c *counter) List(ctx context.Context, disk string) ([]vdisk.DownloadCount, error) {
	query := fmt.Sprintf(`
		SELECT path, download_count, last_downloaded_at
		FROM %s
		WHERE disk = $1
		ORDER BY path ASC
	`, c.tableName)

	rows, err := c.pool.Query(ctx, query, disk)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (vdisk.DownloadCount, error) {
		var dc vdisk.DownloadCount
		err := row.Scan(&dc.Path, &dc.Count, &dc.LastDownloadedAt)
		return dc, err
	})
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	if counts == nil {
		counts = []vdisk.DownloadCount{}
	}

	return counts, nil
}

var _ vdisk.DownloadCounter = (*counter)(nil)
