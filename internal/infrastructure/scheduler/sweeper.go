// Package scheduler runs periodic maintenance jobs
package scheduler

import (
	"context"
	"fmt"

	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper removes idle entries and reports how many were removed
type Sweeper interface {
	SweepIdle() int
}

// SessionSweeper runs a Sweeper on a cron schedule
type SessionSweeper struct {
	cron    *cron.Cron
	entryID cron.EntryID
	logger  logger.Logger
}

// NewSessionSweeper schedules sweeper.SweepIdle with a standard cron spec or
// a descriptor such as "@every 1m"
func NewSessionSweeper(schedule string, sweeper Sweeper, log logger.Logger) (*SessionSweeper, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log: log})))
	id, err := c.AddFunc(schedule, func() {
		removed := sweeper.SweepIdle()
		log.Debug("Session sweep finished", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return &SessionSweeper{
		cron:    c,
		entryID: id,
		logger:  log,
	}, nil
}

// Start runs the schedule in the background
func (s *SessionSweeper) Start() {
	s.cron.Start()
	s.logger.Info("Session sweeper started", map[string]interface{}{
		"next_run": s.cron.Entry(s.entryID).Next,
	})
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end
func (s *SessionSweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("Session sweeper stopped", nil)
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.log.Error(msg, fields)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
