// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: expiring stale
// pending reservations and refreshing the public listings snapshot.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
)

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	cron         *cron.Cron
	reservations *service.Reservations
	listings     *service.Collection[model.Property]
	stalePending time.Duration
	logger       *slog.Logger
}

// New creates a scheduler. stalePending is the age after which pending
// reservations are cancelled.
func New(
	reservations *service.Reservations,
	listings *service.Collection[model.Property],
	stalePending time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		reservations: reservations,
		listings:     listings,
		stalePending: stalePending,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Stale pending sweep once a day, early morning.
	if _, err := s.cron.AddFunc("30 4 * * *", s.expireStalePending); err != nil {
		return err
	}
	// Listings snapshot refresh every ten minutes.
	if _, err := s.cron.AddFunc("*/10 * * * *", s.refreshListings); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) expireStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.reservations.ExpireStalePending(ctx, s.stalePending)
	if err != nil {
		s.logger.Error("stale pending sweep failed", "error", err)
		return
	}
	if len(result.Succeeded) > 0 || len(result.Failed) > 0 {
		s.logger.Info("stale pending reservations expired",
			"category", model.EventCategoryReservation,
			"cancelled", len(result.Succeeded),
			"failed", len(result.Failed),
		)
	}
}

func (s *Scheduler) refreshListings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.listings.Refresh(ctx); err != nil {
		s.logger.Error("listings refresh failed", "error", err)
	}
}
