// Package jsonfile persists each entity collection as one JSON array file.
// Every operation reloads the file, works on the in-memory slice, and
// rewrites the whole file through a temp file renamed over the original, so
// readers never observe a partial write. One mutex per physical file makes
// the load-mutate-save cycle the unit of exclusion within the process.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pybank/internal/infrastructure/monitoring"
	"pybank/internal/pkg/apperrors"
)

type store[T any] struct {
	path   string
	name   string
	mu     sync.Mutex
	logger *slog.Logger
}

func newStore[T any](path, name string, logger *slog.Logger) (*store[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &store[T]{
		path:   path,
		name:   name,
		logger: logger.With(slog.String("store", name), slog.String("path", path)),
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		s.logger.Info("Initializing empty record file")
		if err := s.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat record file: %w", err)
	}
	return s, nil
}

// read returns the full collection. Callers must hold mu.
func (s *store[T]) read() ([]T, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.WrapStorageError(err, "failed to open record file")
	}
	defer f.Close()

	var items []T
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, apperrors.WrapStorageError(err, "failed to decode record file")
	}
	return items, nil
}

// write replaces the whole file atomically. Callers must hold mu.
func (s *store[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return apperrors.WrapStorageError(err, "failed to create temp record file")
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		f.Close()
		return apperrors.WrapStorageError(err, "failed to encode record file")
	}
	if err := f.Close(); err != nil {
		return apperrors.WrapStorageError(err, "failed to close temp record file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.WrapStorageError(err, "failed to replace record file")
	}
	return nil
}

// view runs fn against a fresh load of the collection under the file lock.
func (s *store[T]) view(operation string, fn func(items []T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	items, err := s.read()
	if err == nil {
		err = fn(items)
	}
	monitoring.RecordStoreOperation(s.name, operation, statusLabel(err), time.Since(start))
	return err
}

// mutate runs fn against a fresh load and persists whatever it returns. If fn
// fails, nothing is written and the prior file contents remain.
func (s *store[T]) mutate(operation string, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := func() error {
		items, err := s.read()
		if err != nil {
			return err
		}
		updated, err := fn(items)
		if err != nil {
			return err
		}
		return s.write(updated)
	}()
	monitoring.RecordStoreOperation(s.name, operation, statusLabel(err), time.Since(start))
	return err
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
