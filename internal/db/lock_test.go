//go:build unix

package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriteLockerStampsHolder(t *testing.T) {
	dir := t.TempDir()
	l := newWriteLocker(dir)
	if err := l.acquire(time.Second); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.release()

	raw, err := os.ReadFile(filepath.Join(dir, lockFileName))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if h := parseHolder(string(raw)); h.PID != os.Getpid() || h.Since.IsZero() {
		t.Errorf("holder = %+v, want this process with a timestamp", h)
	}
}

// Each writer reads, sleeps, then writes a shared counter; only the file lock
// keeps the increments from being lost.
func TestWriteLockerSerializesWriters(t *testing.T) {
	dir := t.TempDir()
	const writers, rounds = 4, 5

	var (
		wg    sync.WaitGroup
		total atomic.Int64
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				l := newWriteLocker(dir)
				if err := l.acquire(5 * time.Second); err != nil {
					t.Errorf("acquire: %v", err)
					return
				}
				seen := total.Load()
				time.Sleep(time.Millisecond)
				total.Store(seen + 1)
				if err := l.release(); err != nil {
					t.Errorf("release: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if got := total.Load(); got != writers*rounds {
		t.Errorf("total = %d, want %d", got, writers*rounds)
	}
}

func TestWriteLockerTimeoutNamesHolder(t *testing.T) {
	dir := t.TempDir()
	first := newWriteLocker(dir)
	if err := first.acquire(time.Second); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	second := newWriteLocker(dir)
	err := second.acquire(100 * time.Millisecond)
	var lockErr *LockTimeoutError
	if !errors.As(err, &lockErr) {
		t.Fatalf("second acquire = %v, want *LockTimeoutError", err)
	}
	if lockErr.Holder.PID != os.Getpid() {
		t.Errorf("holder pid = %d, want %d", lockErr.Holder.PID, os.Getpid())
	}
	if !strings.Contains(err.Error(), "store is busy") {
		t.Errorf("message = %q", err)
	}

	// Once released the lock is free again.
	if err := first.release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := second.acquire(time.Second); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	second.release()
}

func TestParseHolder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pid  int
		time bool
	}{
		{"full", "pid:42\ntime:2024-05-01T10:00:00Z\n", 42, true},
		{"pid only", "pid:7", 7, false},
		{"garbage", "hello\nworld", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := parseHolder(tt.in)
			if h.PID != tt.pid {
				t.Errorf("pid = %d, want %d", h.PID, tt.pid)
			}
			if h.Since.IsZero() == tt.time {
				t.Errorf("since = %v, want set=%v", h.Since, tt.time)
			}
		})
	}
	if got := (lockHolder{}).String(); got != "unknown" {
		t.Errorf("zero holder = %q, want unknown", got)
	}
}
