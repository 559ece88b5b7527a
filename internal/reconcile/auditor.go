package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

// Auditor periodically replays the interaction ledger against the denormalized
// stats and logs any drift. It runs as an app component until its context is
// cancelled.
type Auditor struct {
	Schedule string
	Audit    *command.AuditContentStats
}

func (a *Auditor) Run(ctx context.Context) error {
	logger := domain.LoggerFromContext(ctx)

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(a.Schedule, func() {
		if _, err := a.Audit.Execute(ctx, command.Empty{}); err != nil {
			logger.ErrorContext(ctx, "content stats audit failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("registering stats audit schedule [%s]: %w", a.Schedule, err)
	}

	c.Start()
	logger.InfoContext(ctx, "content stats auditor started", "schedule", a.Schedule)

	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
