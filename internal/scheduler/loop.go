package scheduler

import (
	"context"
	"time"

	"tradeagents/internal/logger"
)

// Loop runs a task on a cadence that is re-read before every sleep,
// so settings changes take effect without a restart. ActiveFn gates
// each run; an inactive wake just reschedules.
type Loop struct {
	Name           string
	IntervalFn     func() time.Duration
	ActiveFn       func(time.Time) bool
	RunImmediately bool

	ctx   context.Context
	nowFn func() time.Time
}

func NewLoop(ctx context.Context, name string, intervalFn func() time.Duration) *Loop {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Loop{
		Name:       name,
		IntervalFn: intervalFn,
		ctx:        ctx,
		nowFn:      time.Now,
	}
}

// Start blocks until the context is cancelled. A non-positive
// interval pauses the loop and is re-checked once a minute.
func (l *Loop) Start(task func()) {
	if l == nil || task == nil {
		return
	}
	if l.IntervalFn == nil {
		logger.Warnf("loop %s: no interval source, exit", l.Name)
		return
	}
	if l.ctx == nil {
		l.ctx = context.Background()
	}
	if l.nowFn == nil {
		l.nowFn = time.Now
	}

	startAt := l.nowFn()
	logger.Infof("loop %s: started at=%s", l.Name, startAt.UTC().Format(time.RFC3339))

	if l.RunImmediately && l.active() {
		task()
	}

	const pauseProbe = time.Minute
	for {
		interval := l.IntervalFn()
		wait := interval
		if interval <= 0 {
			wait = pauseProbe
		}

		timer := time.NewTimer(wait)
		select {
		case <-l.ctx.Done():
			timer.Stop()
			logger.Infof("loop %s: ctx done, exit", l.Name)
			return
		case <-timer.C:
		}

		if interval <= 0 {
			continue
		}
		if !l.active() {
			logger.Debugf("loop %s: outside active window, skip", l.Name)
			continue
		}
		task()
	}
}

func (l *Loop) active() bool {
	if l.ActiveFn == nil {
		return true
	}
	return l.ActiveFn(l.nowFn())
}
