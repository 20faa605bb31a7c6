// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the marketplace workflows that sit between
// the HTTP handlers and the store: bulk mutation runs, reservation status
// transitions, CSV export and cached collection refresh.
package service

import (
	"context"
	"log/slog"
)

// BatchFailure records one item that a bulk operation could not process.
type BatchFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports the outcome of a bulk operation per item. Bulk runs
// are at-least-effort, not atomic: succeeded items stay applied even when
// others fail, and the caller gets told exactly which were which.
type BatchResult struct {
	Succeeded []int64        `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// OK reports whether every item succeeded.
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// RunBatch applies op to each ID sequentially, awaiting each call before
// issuing the next (concurrency bound 1 by construction). A failing item
// is recorded and the batch continues; nothing is rolled back.
func RunBatch(ctx context.Context, ids []int64, op func(ctx context.Context, id int64) error) BatchResult {
	result := BatchResult{Succeeded: make([]int64, 0, len(ids))}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		if err := op(ctx, id); err != nil {
			slog.Error("bulk operation item failed", "id", id, "error", err)
			result.Failed = append(result.Failed, BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result
}
