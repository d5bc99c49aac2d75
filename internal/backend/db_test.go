/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
)

func TestTokenSignVerifyRoundTrip(t *testing.T) {
	tok, err := signToken("secret", "alex", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken("secret", tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alex" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	tok, _ := signToken("secret", "alex", time.Now().Add(time.Hour))
	if _, err := verifyToken("other-secret", tok); err == nil {
		t.Fatalf("wrong secret must fail")
	}
	if _, err := verifyToken("secret", tok+"x"); err == nil {
		t.Fatalf("mangled signature must fail")
	}
	if _, err := verifyToken("secret", "not-a-token"); err == nil {
		t.Fatalf("malformed token must fail")
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	tok, _ := signToken("secret", "alex", time.Now().Add(-time.Minute))
	if _, err := verifyToken("secret", tok); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatalf("missing version prefix must fail")
	}
}

func openPGForTest(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("CF_PG_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		t.Skip("CF_PG_DSN not set; skipping postgres test")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("cannot open postgres: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Skipf("postgres not available: %v", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestJobHistoryRoundTrip(t *testing.T) {
	db := openPGForTest(t)
	defer func() { _ = db.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jobID := "test-job-" + time.Now().Format("150405.000000000")
	if _, err := db.ExecContext(ctx, `INSERT INTO render_jobs (job_id, source, clip_index, title, layout_mode, state, submitted_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`, jobID, "talk.mp4", 0, "Opening hook", "stack", "queued", "test"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	defer db.ExecContext(context.Background(), `DELETE FROM render_jobs WHERE job_id = $1`, jobID)

	var state string
	if err := db.QueryRowContext(ctx, `SELECT state FROM render_jobs WHERE job_id = $1`, jobID).Scan(&state); err != nil {
		t.Fatalf("select: %v", err)
	}
	if state != "queued" {
		t.Fatalf("state = %q", state)
	}
	if _, err := db.ExecContext(ctx, `UPDATE render_jobs SET state = 'done', updated_at = now() WHERE job_id = $1`, jobID); err != nil {
		t.Fatalf("update: %v", err)
	}
}
