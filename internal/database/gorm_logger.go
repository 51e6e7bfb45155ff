package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes GORM output through slog so SQL lines carry the same
// request attributes as the rest of the request's logs.
type GormLogger struct {
	log                *slog.Logger
	level              logger.LogLevel
	slowQueryThreshold time.Duration
}

func NewGormLogger(log *slog.Logger, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{
		log:                log.With("component", "gorm"),
		level:              logger.Info,
		slowQueryThreshold: slowQueryThreshold,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs every statement at debug, slow ones at warn and failures at
// error. Record-not-found is an expected outcome and never logged as error.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error
	slow := l.slowQueryThreshold > 0 && elapsed > l.slowQueryThreshold && l.level >= logger.Warn
	debug := l.level >= logger.Info && l.log.Enabled(ctx, slog.LevelDebug)
	if !failed && !slow && !debug {
		// Rendering the SQL is the expensive part; skip it when nothing is logged.
		return
	}

	sqlStr, rows := fc()
	args := []any{
		"duration", elapsed,
		"rows", rows,
		"sql", sqlStr,
	}

	switch {
	case failed:
		args = append(args, "error", err)
		l.log.ErrorContext(ctx, "SQL execution failed", args...)
	case slow:
		l.log.WarnContext(ctx, "Slow query detected", args...)
	default:
		l.log.DebugContext(ctx, "SQL executed", args...)
	}
}
