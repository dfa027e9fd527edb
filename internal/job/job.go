// Package job runs one unit of scheduled work and reports how it went.
package job

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/metrics"
)

// Func is the body of a job. The returned string is a short human-readable
// detail such as "imported 42 articles".
type Func func(ctx context.Context) (string, error)

// Outcome is the result of one run. Err is nil on success.
type Outcome struct {
	Name     string        `json:"name"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Detail   string        `json:"detail,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (o Outcome) OK() bool { return o.Err == nil }

// Run executes fn, turning a panic into a failed Outcome. Every outcome is
// logged and counted.
func Run(ctx context.Context, log logger.Logger, name string, fn Func) (out Outcome) {
	if log == nil {
		log = logger.NewNop()
	}
	out = Outcome{Name: name, Started: time.Now()}
	log = log.With(logger.String("job", name))
	log.Info("job started")

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("job %s panicked: %v", name, r)
			log.Error("job panicked", logger.String("stack", string(debug.Stack())))
		}
		out.Finished = time.Now()
		out.Duration = out.Finished.Sub(out.Started)
		if out.Err != nil {
			out.Error = out.Err.Error()
			log.Error("job failed", logger.Error(out.Err), logger.Duration("duration", out.Duration))
		} else {
			log.Info("job finished", logger.String("detail", out.Detail), logger.Duration("duration", out.Duration))
		}
		metrics.RecordJob(name, out.Err, out.Duration)
	}()

	out.Detail, out.Err = fn(ctx)
	return out
}
