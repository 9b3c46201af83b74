package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/blocks"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/config"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/export"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/jobs"
)

var watchCmd = &cobra.Command{
	Use:   "watch <root-dir>",
	Short: "Watch for layout output and parse documents as they arrive",
	Long: `Watch monitors a root directory whose subdirectories each hold one
document's page_*.json layout files. When a document's files change, a
parse job is scheduled after a debounce window and the resolved tree
plus its graph export are written under the doclayout home directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, hd, logger, err := setup()
		if err != nil {
			return err
		}
		if err := hd.EnsureExists(); err != nil {
			return err
		}
		if !hd.ConfigExists() {
			if err := config.WriteDefault(hd.ConfigPath()); err != nil {
				logger.Warn("failed to write default config", "path", hd.ConfigPath(), "error", err)
			}
		}
		rootDir := args[0]
		ctx := cmd.Context()

		handler := func(ctx context.Context, job jobs.Job) error {
			cfg := cm.Get()
			bs, err := blocks.Load(job.InputDir, blocks.LoadOptions{
				Retries: cfg.Parse.LoadRetries,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			docName := job.DocName
			if docName == "" {
				docName = blocks.DeriveDocName(bs, job.InputDir)
			}
			parser := hierarchy.NewParser(hierarchy.ParserOptions{
				DocName: docName,
				Workers: cfg.Parse.SectionWorkers,
				Logger:  logger,
			})
			tree, err := parser.Parse(ctx, blocks.Fragments(bs))
			if err != nil {
				return err
			}

			docID := filepath.Base(filepath.Clean(job.InputDir))
			if err := hd.EnsureDocDir(docID); err != nil {
				return err
			}
			data, err := json.Marshal(tree)
			if err != nil {
				return fmt.Errorf("failed to encode tree: %w", err)
			}
			if err := os.WriteFile(hd.HierarchyPath(docID), data, 0o644); err != nil {
				return fmt.Errorf("failed to write tree: %w", err)
			}
			if err := hd.EnsureGraphDir(docID); err != nil {
				return err
			}
			return export.WriteAll(hd.GraphDir(docID), tree, export.WriteOptions{
				DocName: docName,
				Logger:  logger,
			})
		}

		pool, err := jobs.NewPool(jobs.PoolConfig{
			Logger:      logger,
			WorkerCount: cm.Get().Watch.Workers,
			Handler:     handler,
		})
		if err != nil {
			return err
		}
		go pool.Start(ctx)
		go func() {
			for range pool.Results() {
			}
		}()

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(rootDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", rootDir, err)
		}
		entries, err := os.ReadDir(rootDir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rootDir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				if err := watcher.Add(filepath.Join(rootDir, e.Name())); err != nil {
					logger.Warn("failed to watch subdirectory", "dir", e.Name(), "error", err)
				}
			}
		}

		cm.OnChange(func(cfg *config.Config) {
			logger.Info("config reloaded",
				"section_workers", cfg.Parse.SectionWorkers,
				"debounce_ms", cfg.Watch.DebounceMillis)
		})
		cm.WatchConfigFile()

		debounce := newDebouncer(func(dir string) {
			if err := pool.Submit(jobs.NewJob(dir, cm.Get().Parse.DocName)); err != nil {
				logger.Warn("dropping parse request", "dir", dir, "error", err)
			}
		})
		defer debounce.stop()

		logger.Info("watching for layout output", "root", rootDir)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op.Has(fsnotify.Create) {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
						}
						continue
					}
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasPrefix(name, "page_") || !strings.HasSuffix(name, ".json") {
					continue
				}
				dir := filepath.Dir(event.Name)
				if dir == filepath.Clean(rootDir) {
					continue
				}
				wait := time.Duration(cm.Get().Watch.DebounceMillis) * time.Millisecond
				debounce.schedule(dir, wait)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("watch error", "error", err)
			}
		}
	},
}

// debouncer coalesces bursts of file events per document directory.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	fire   func(dir string)
}

func newDebouncer(fire func(dir string)) *debouncer {
	return &debouncer{timers: make(map[string]*time.Timer), fire: fire}
}

func (d *debouncer) schedule(dir string, wait time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[dir]; ok {
		t.Reset(wait)
		return
	}
	d.timers[dir] = time.AfterFunc(wait, func() {
		d.mu.Lock()
		delete(d.timers, dir)
		d.mu.Unlock()
		d.fire(dir)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for dir, t := range d.timers {
		t.Stop()
		delete(d.timers, dir)
	}
}
