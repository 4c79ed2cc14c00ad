package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/buildgrid/internal/watcher"
)

// Watch renders a plan, then re-plans whenever one of the tree's descriptor
// files changes, until ctx is done. Failed plans are logged and the last
// known file set stays watched.
func (a *App) Watch(ctx context.Context, debounce time.Duration) error {
	ctx = a.context(ctx)
	root, err := a.rootFile()
	if err != nil {
		return err
	}
	files := []string{root}

	for {
		plan, err := a.Plan(ctx)
		if err != nil {
			a.logger.Error("Planning failed.", "error", err)
		} else {
			if err := Render(a.outW, plan, a.config.Output); err != nil {
				return fmt.Errorf("failed to render plan: %w", err)
			}
			if len(plan.Files) > 0 {
				files = plan.Files
			}
		}

		changed, err := a.waitForChange(ctx, files, debounce)
		if err != nil {
			return err
		}
		if !changed {
			a.logger.Debug("Watch stopped.")
			return nil
		}
		a.logger.Info("Descriptor changed, re-planning.")
	}
}

func (a *App) waitForChange(ctx context.Context, files []string, debounce time.Duration) (bool, error) {
	w, err := watcher.New(watcher.Config{Files: files, DebounceDur: debounce, Logger: a.logger})
	if err != nil {
		return false, err
	}
	defer w.Stop()

	changes, err := w.Start()
	if err != nil {
		return false, err
	}
	a.logger.Debug("Watching descriptor files.", "files", files)

	select {
	case <-ctx.Done():
		return false, nil
	case <-changes:
		return true, nil
	}
}
