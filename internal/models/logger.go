package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// Queries slower than this are logged as warnings.
const slowQuery = 500 * time.Millisecond

// logger sends gorm's output to zerolog.
type logger struct {
	Logger zerolog.Logger
}

func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(_ context.Context, s string, args ...any) {
	l.Logger.Info().Msgf(s, args...)
}

func (l *logger) Warn(_ context.Context, s string, args ...any) {
	l.Logger.Warn().Msgf(s, args...)
}

func (l *logger) Error(_ context.Context, s string, args ...any) {
	l.Logger.Error().Msgf(s, args...)
}

func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	event := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed)
	}

	switch {
	// Lookups of single resources that do not exist are answered with a 404
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		event(l.Logger.Error().Err(err)).Msg("query failed")
	case elapsed > slowQuery:
		event(l.Logger.Warn()).Msg("slow query")
	default:
		event(l.Logger.Debug()).Msg("query")
	}
}
