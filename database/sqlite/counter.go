package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/vdisk"
)

// counter stores one row per downloaded file. tableName is already quoted.
type counter struct {
	db        *sql.DB
	tableName string
}

func (c *counter) Increment(ctx context.Context, disk, path string) (int64, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, disk, path, download_count, created_at, last_downloaded_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (disk, path) DO UPDATE
		SET download_count = download_count + 1,
			last_downloaded_at = excluded.last_downloaded_at
		RETURNING download_count`, c.tableName)

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var count int64
	err := c.db.QueryRowContext(ctx, query, uuid.NewString(), disk, path, now, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment: %w", err)
	}

	return count, nil
}

func (c *counter) List(ctx context.Context, disk string) ([]vdisk.DownloadCount, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT path, download_count, last_downloaded_at
		FROM %s
		WHERE disk = ?
		ORDER BY path ASC`, c.tableName)

	rows, err := c.db.QueryContext(ctx, query, disk)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []vdisk.DownloadCount{}
	for rows.Next() {
		var dc vdisk.DownloadCount
		var lastDownloadedAt string

		if err := rows.Scan(&dc.Path, &dc.Count, &lastDownloadedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}

		dc.LastDownloadedAt, err = time.Parse(time.RFC3339Nano, lastDownloadedAt)
		if err != nil {
			return nil, fmt.Errorf("list: parse last_downloaded_at: %w", err)
		}

		counts = append(counts, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows error: %w", err)
	}

	return counts, nil
}

var _ vdisk.DownloadCounter = (*counter)(nil)
