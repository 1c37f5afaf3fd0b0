//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/tamasv/winboard/pkg/inputlang"
	jsonstore "codeberg.org/tamasv/winboard/pkg/layoutstore/json"
	memorystore "codeberg.org/tamasv/winboard/pkg/layoutstore/memory"
	"codeberg.org/tamasv/winboard/pkg/layoutstore/sqlite"
	"codeberg.org/tamasv/winboard/pkg/winlang"
)

func newWatchCommand(debug *bool) *cobra.Command {
	var (
		storeKind string
		dbPath    string
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Remember and restore the layout per foreground application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(*debug, storeKind, dbPath, interval)
		},
	}
	cmd.Flags().StringVar(&storeKind, "store", "sqlite", "layout store backend (sqlite, json or memory)")
	cmd.Flags().StringVar(&dbPath, "db", "", "layout store path (defaults under the user data dir)")
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "foreground poll interval")

	return cmd
}

func runWatch(debug bool, storeKind, dbPath string, interval time.Duration) error {
	log, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(storeKind, dbPath, log)
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	if store.close != nil {
		defer store.close()
	}

	client := winlang.NewClient()
	resolver := newResolver()
	watcher := winlang.NewWatcher(client, interval)

	sw := inputlang.NewSwitcher(watcher, client, resolver, store.store, log)

	log.Info("started winboard")

	errChan := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := sw.ProcessEvents(ctx); err != nil {
			errChan <- fmt.Errorf("process events: %w", err)
		}
	}()

	if store.run != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.run(ctx); err != nil {
				errChan <- fmt.Errorf("store save loop: %w", err)
			}
		}()
	}

	err = <-errChan
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		wg.Wait()
		return nil
	case err != nil:
		return err
	}

	return nil
}

type storeHandle struct {
	store inputlang.ActiveLayoutStore
	run   func(context.Context) error
	close func() error
}

func openStore(kind, path string, log *zap.SugaredLogger) (storeHandle, error) {
	switch kind {
	case "sqlite":
		if path == "" {
			var err error
			path, err = xdg.DataFile("winboard/layouts.db")
			if err != nil {
				return storeHandle{}, fmt.Errorf("resolve data path: %w", err)
			}
		}
		store, err := sqlite.NewLayoutStore(path, log)
		if err != nil {
			return storeHandle{}, fmt.Errorf("open sqlite store: %w", err)
		}
		return storeHandle{store: store, close: store.Close}, nil

	case "json":
		if path == "" {
			var err error
			path, err = xdg.DataFile("winboard/layouts.json")
			if err != nil {
				return storeHandle{}, fmt.Errorf("resolve data path: %w", err)
			}
		}
		store, err := jsonstore.NewLayoutStore(path)
		if err != nil {
			return storeHandle{}, fmt.Errorf("open json store: %w", err)
		}
		// SaveLooper closes the file on exit
		return storeHandle{store: store, run: store.SaveLooper}, nil

	case "memory":
		return storeHandle{store: memorystore.NewLayoutStore()}, nil

	default:
		return storeHandle{}, fmt.Errorf("unknown store backend %q", kind)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
