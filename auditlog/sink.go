/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package auditlog persists append-only CSV records of on-chain activity.
//
// Each sink owns one file. The header row is written once when the file is
// created and never repeated. Appends are serialized; a sink is safe for
// concurrent use. Callers treat append failures as non-fatal: log and move
// on, the chain is the source of truth.
package auditlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/chainguard-dev/clog"
)

// Sink appends rows to a single CSV file, creating it with a header row on
// first use.
type Sink struct {
	path   string
	header []string

	mu sync.Mutex
}

// NewSink returns a sink for the CSV file at path with the given header.
// The file is not touched until the first Append.
func NewSink(path string, header []string) *Sink {
	return &Sink{path: path, header: header}
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string { return s.path }

// Append writes rows to the end of the file, creating it with the header
// row first if it does not exist yet.
func (s *Sink) Append(ctx context.Context, rows ...[]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := false
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		fresh = true
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(s.header); err != nil {
			return fmt.Errorf("writing header to %s: %w", s.path, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.path, err)
	}
	clog.FromContext(ctx).With("path", s.path).Debugf("appended %d audit rows", len(rows))
	return nil
}

// Read returns the data rows of the file, without the header. A missing
// file reads as empty.
func (s *Sink) Read(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
