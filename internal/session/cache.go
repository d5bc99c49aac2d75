/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultScratchCap is the byte budget for cached thumbnails before LRU
// eviction kicks in.
const DefaultScratchCap int64 = 64 << 20

// ScratchCache is a session-scoped thumbnail cache backed by a throwaway
// SQLite file. It exists only for the lifetime of the editing session: Close
// removes the database file, so nothing about the session survives it.
type ScratchCache struct {
	db       *sql.DB
	path     string
	capBytes int64
}

// OpenScratchCache creates the cache database under dir (os.TempDir when
// empty). capBytes <= 0 selects DefaultScratchCap.
func OpenScratchCache(dir string, capBytes int64) (*ScratchCache, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if capBytes <= 0 {
		capBytes = DefaultScratchCap
	}
	path := filepath.Join(dir, fmt.Sprintf("clipframe-scratch-%d.db", time.Now().UnixNano()))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scratch cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS thumbs (
		clip        INTEGER NOT NULL,
		region_id   TEXT    NOT NULL DEFAULT '',
		w           INTEGER NOT NULL,
		h           INTEGER NOT NULL,
		blob        BLOB    NOT NULL,
		size        INTEGER NOT NULL,
		last_access TEXT    NOT NULL,
		PRIMARY KEY (clip, region_id, w, h)
	);`); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("init scratch cache: %w", err)
	}
	return &ScratchCache{db: db, path: path, capBytes: capBytes}, nil
}

// Put upserts a thumbnail blob and evicts least-recently-used entries until
// the cache fits its byte budget again.
func (c *ScratchCache) Put(ctx context.Context, clip int, regionID string, w, h int, blob []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := c.db.ExecContext(ctx, `INSERT INTO thumbs(clip,region_id,w,h,blob,size,last_access)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(clip,region_id,w,h) DO UPDATE SET blob=excluded.blob, size=excluded.size, last_access=excluded.last_access`,
		clip, regionID, w, h, blob, len(blob), now)
	if err != nil {
		return fmt.Errorf("put thumbnail: %w", err)
	}
	return c.evictToFit(ctx)
}

// Get returns the cached blob for the key, or nil when absent. Hits refresh
// the entry's access time.
func (c *ScratchCache) Get(ctx context.Context, clip int, regionID string, w, h int) ([]byte, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT blob FROM thumbs WHERE clip=? AND region_id=? AND w=? AND h=?`,
		clip, regionID, w, h).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get thumbnail: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, _ = c.db.ExecContext(ctx,
		`UPDATE thumbs SET last_access=? WHERE clip=? AND region_id=? AND w=? AND h=?`,
		now, clip, regionID, w, h)
	return blob, nil
}

// InvalidateClip drops every cached entry for a clip. Called when the clip's
// regions change shape.
func (c *ScratchCache) InvalidateClip(ctx context.Context, clip int) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM thumbs WHERE clip=?`, clip); err != nil {
		return fmt.Errorf("invalidate clip: %w", err)
	}
	return nil
}

// TotalBytes returns the summed size of all cached blobs.
func (c *ScratchCache) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := c.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM thumbs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum thumbnail sizes: %w", err)
	}
	return total, nil
}

func (c *ScratchCache) evictToFit(ctx context.Context) error {
	total, err := c.TotalBytes(ctx)
	if err != nil {
		return err
	}
	if total <= c.capBytes {
		return nil
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT clip, region_id, w, h, size FROM thumbs ORDER BY last_access ASC`)
	if err != nil {
		return fmt.Errorf("select eviction victims: %w", err)
	}
	type key struct {
		clip, w, h int
		regionID   string
	}
	var victims []key
	cur := total
	for rows.Next() {
		var k key
		var sz int64
		if err := rows.Scan(&k.clip, &k.regionID, &k.w, &k.h, &sz); err != nil {
			rows.Close()
			return err
		}
		victims = append(victims, k)
		cur -= sz
		if cur <= c.capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(victims) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`DELETE FROM thumbs WHERE (clip, region_id, w, h) IN (VALUES `)
	args := make([]any, 0, len(victims)*4)
	for i, k := range victims {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?,?,?,?)")
		args = append(args, k.clip, k.regionID, k.w, k.h)
	}
	b.WriteString(")")
	if _, err := c.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("evict thumbnails: %w", err)
	}
	return nil
}

// Close closes the database and removes its file. The cache is disposable;
// there is nothing to keep.
func (c *ScratchCache) Close() error {
	err := c.db.Close()
	if rmErr := os.Remove(c.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
