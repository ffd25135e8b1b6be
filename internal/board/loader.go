package board

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/BastianThoma/join/internal/model"
)

// Refresh reloads the task and contact collections concurrently. Each
// collection that loads successfully replaces its in-memory copy even when
// the other read fails; a failure leaves the prior state of that
// collection untouched and records a displayable load error.
func (b *Board) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tasks, err := b.tasksSrc.List(ctx)
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.tasks = tasks
		// The reload is the reconciliation point for diverged tasks.
		b.outOfSync = map[model.TaskID]bool{}
		b.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		contacts, err := b.contactsSrc.List(ctx)
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.contacts = contacts
		b.mu.Unlock()
		return nil
	})

	err := g.Wait()

	b.mu.Lock()
	if err != nil {
		b.loadErr = "error loading data: " + err.Error()
	} else {
		b.loadErr = ""
	}
	b.mu.Unlock()
	return err
}
