package cron

import (
	"context"
	"log/slog"
	"time"
)

// SessionArchiver finalizes attendance sessions from past days.
type SessionArchiver interface {
	ArchiveStale(ctx context.Context) (int64, error)
}

type AttendanceJobs struct {
	archiver SessionArchiver
	interval time.Duration
	logger   *slog.Logger
}

func NewAttendanceJobs(archiver SessionArchiver, interval time.Duration, logger *slog.Logger) *AttendanceJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{archiver: archiver, interval: interval, logger: logger}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_stale_sessions", j.interval, j.ArchiveStaleSessions)
}

// ArchiveStaleSessions stamps the final display status on every session
// dated before today so history no longer depends on the clock.
func (j *AttendanceJobs) ArchiveStaleSessions(ctx context.Context) error {
	n, err := j.archiver.ArchiveStale(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("archived attendance sessions", "count", n)
	}
	return nil
}
