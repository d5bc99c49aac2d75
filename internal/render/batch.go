/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	applog "clipframe/internal/log"
	"clipframe/internal/session"
)

// DefaultBatchWorkers caps concurrent submissions per batch.
const DefaultBatchWorkers = 4

// BatchResult pairs a clip index with its created job.
type BatchResult struct {
	Clip int
	Job  *JobStatus
}

// SubmitAll builds and submits a compose request for every clip of the
// session, at most workers in flight at once. The first failure cancels the
// remaining submissions; results for clips submitted before the failure are
// still returned.
func SubmitAll(ctx context.Context, c *Client, s *session.Session, captions *CaptionOptions, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	n := len(s.Clips)
	if n == 0 {
		n = 1
	}
	log := applog.WithComponent("render")

	results := make([]*JobStatus, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			req, err := BuildRequest(s, i, captions)
			if err != nil {
				return err
			}
			job, err := c.Submit(ctx, req)
			if err != nil {
				return err
			}
			results[i] = job
			log.Info("clip submitted", slog.Int("clip", i), slog.String("job", job.ID))
			return nil
		})
	}
	err := g.Wait()

	var out []BatchResult
	for i, job := range results {
		if job != nil {
			out = append(out, BatchResult{Clip: i, Job: job})
		}
	}
	return out, err
}
