package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thesephist/jiki/pkg/jiki"
)

const debounceDelay = 500 * time.Millisecond

// watch runs every file once, then again whenever it changes, until
// interrupted. Directories are watched rather than files so editors that
// save by renaming are still noticed.
func (c *cli) watch(ctx context.Context, files []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	// runs never overlap
	var mu sync.Mutex
	rerun := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Println(titleStyle.Render("── " + filepath.Base(path) + " " + time.Now().Format("15:04:05")))
		c.runFile(path)
	}

	for path := range watched {
		rerun(path)
	}

	timers := map[string]*time.Timer{}
	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			jiki.LogDebugf("%s changed (%s)", event.Name, event.Op)

			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			path := event.Name
			timers[path] = time.AfterFunc(debounceDelay, func() {
				if _, err := os.Stat(path); err != nil {
					return
				}
				rerun(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			jiki.LogSafeErr(jiki.ErrSystem, "file watcher error:", err.Error())
		}
	}
}
