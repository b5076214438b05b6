package main

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codeaudit/internal/discovery"
	"github.com/standardbeagle/codeaudit/internal/display"
	auditerrors "github.com/standardbeagle/codeaudit/internal/errors"
)

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	console := display.NewConsole(c.App.ErrWriter, c.Bool("quiet"))
	scanner, err := discovery.NewScanner(cfg)
	if err != nil {
		return err
	}

	// A failed run is reported and watching continues
	if _, err := runAudit(c.Context, cfg, scanner, console, c.App.Writer); err != nil {
		console.Error("audit failed: %v", err)
	}

	changes := make(chan []string, 1)
	watcher, err := discovery.NewWatcher(scanner, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// A re-run is already pending and will pick these up
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		var partial *auditerrors.MultiError
		if !errors.As(err, &partial) {
			return err
		}
		for _, e := range partial.Errors {
			console.Warn("not watched: %v", e)
		}
	}
	defer watcher.Stop()

	console.Success("Watching %s for changes (Ctrl+C to stop)", scanner.Root())
	for {
		select {
		case <-c.Context.Done():
			console.Step("Stopping watch mode")
			return nil
		case paths := <-changes:
			console.Step("%d changed files, re-running audit", len(paths))
			if _, err := runAudit(c.Context, cfg, scanner, console, c.App.Writer); err != nil {
				console.Error("audit failed: %v", err)
			}
		}
	}
}
