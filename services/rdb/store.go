// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const runPrefix = "run/"

// Config configures the embedded database behind a Store.
type Config struct {
	// Dir holds the database files. Ignored when InMemory is true.
	Dir string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's own messages. Nil silences them.
	Logger *slog.Logger
}

// DefaultConfig returns a durable on-disk configuration for dir.
func DefaultConfig(dir string) Config {
	return Config{Dir: dir, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

// Store persists run records.
//
// Thread Safety: Safe for concurrent use.
type Store struct {
	db  *badger.DB
	dir string
	now func() time.Time
}

// Open opens or creates a Store.
//
// Inputs:
//   - cfg: Database configuration. Dir is required unless InMemory.
//
// Outputs:
//   - *Store: The store. Caller must Close it.
//   - error: Non-nil if the directory or database cannot be opened.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("rdb: directory is required for a persistent store")
		}
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("rdb: create directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("rdb: open badger database: %w", err)
	}
	return &Store{db: db, dir: cfg.Dir, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the database directory, empty for in-memory stores.
func (s *Store) Dir() string {
	return s.dir
}

// Put stores a run with attrs and its diagnostics.
//
// Outputs:
//   - Record: The stored record with its new ID and creation time.
//   - error: Non-nil if the context is done or the commit fails.
func (s *Store) Put(ctx context.Context, attrs Attrs, pairs []Pair) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, fmt.Errorf("rdb: put: %w", err)
	}
	rec := Record{
		ID:      uuid.NewString(),
		Attrs:   attrs,
		Created: s.now().UTC(),
		Pairs:   pairs,
	}
	val, err := json.Marshal(&rec)
	if err != nil {
		return Record{}, fmt.Errorf("rdb: encode record: %w", err)
	}
	key := []byte(runPrefix + attrs.Key() + "/" + rec.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
	if err != nil {
		return Record{}, fmt.Errorf("rdb: put: %w", err)
	}
	return rec, nil
}

// List returns every run whose attributes match filter, oldest first.
func (s *Store) List(ctx context.Context, filter Attrs) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rdb: list: %w", err)
	}
	var recs []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(runPrefix), PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if rec.Attrs.Matches(filter) {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rdb: list: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Created.Before(recs[j].Created) })
	return recs, nil
}
