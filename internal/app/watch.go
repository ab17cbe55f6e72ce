package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the event bursts editors produce on save.
const watchDebounce = 500 * time.Millisecond

// Watch re-evaluates a document's query blocks whenever it changes on disk,
// until ctx is done. onResult receives the results of each re-evaluation.
func (a *App) Watch(ctx context.Context, onResult func([]BlockResult)) error {
	if a.vault == nil {
		return fmt.Errorf("no vault configured: set VAULT_DIR")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify does not recurse, so register every subdirectory.
	err = filepath.WalkDir(a.vault.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		return err
	}

	a.log.Info("watching vault", slog.String("dir", a.vault.Dir()))

	pending := make(map[string]struct{})
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
				continue
			}
			rel, err := filepath.Rel(a.vault.Dir(), ev.Name)
			if err != nil {
				continue
			}
			pending[rel] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", slog.String("error", err.Error()))

		case <-fire:
			docs := make([]string, 0, len(pending))
			for doc := range pending {
				docs = append(docs, doc)
			}
			pending = make(map[string]struct{})
			for _, doc := range docs {
				results, err := a.EvaluateDocument(ctx, doc)
				if err != nil {
					a.log.Error("document evaluation failed",
						slog.String("doc", doc),
						slog.String("error", err.Error()),
					)
					continue
				}
				if onResult != nil {
					onResult(results)
				}
			}
		}
	}
}
