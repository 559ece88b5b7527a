package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/datasources/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_InvalidSchedule(t *testing.T) {
	store := memory.New()
	auditor := &Auditor{
		Schedule: "not a cron expression",
		Audit:    &command.AuditContentStats{Lister: store, Interactions: store},
	}

	err := auditor.Run(context.Background())
	assert.Error(t, err)
}

func TestAuditor_StopsOnContextCancel(t *testing.T) {
	store := memory.New()
	auditor := &Auditor{
		Schedule: "@hourly",
		Audit:    &command.AuditContentStats{Lister: store, Interactions: store},
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- auditor.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("auditor did not stop after context cancellation")
	}
}
