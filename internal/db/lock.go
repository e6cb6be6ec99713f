package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	lockFileName   = "store.lock"
	defaultTimeout = 500 * time.Millisecond
	initialBackoff = 5 * time.Millisecond
	maxBackoff     = 50 * time.Millisecond
)

// LockTimeoutError reports a write lock another process held for too long.
type LockTimeoutError struct {
	Waited time.Duration
	Holder lockHolder
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("store is busy: write lock timeout after %v (holder %s)", e.Waited, e.Holder)
}

// lockHolder is what the lock file records about the process holding it.
type lockHolder struct {
	PID   int
	Since time.Time
	Stale bool
}

func (h lockHolder) String() string {
	if h.PID == 0 {
		return "unknown"
	}
	s := fmt.Sprintf("pid:%d", h.PID)
	if !h.Since.IsZero() {
		s += " since " + h.Since.Format(time.RFC3339)
	}
	if h.Stale {
		s += ", process gone"
	}
	return s
}

// parseHolder reads "pid:N" and "time:RFC3339" lines. Unknown lines are ignored.
func parseHolder(data string) lockHolder {
	var h lockHolder
	for _, line := range strings.Split(data, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		switch k {
		case "pid":
			h.PID, _ = strconv.Atoi(v)
		case "time":
			h.Since, _ = time.Parse(time.RFC3339, v)
		}
	}
	return h
}

// writeLocker serializes writers across wayfind processes sharing a data
// directory (for example the TUI and a CLI command). The OS drops the lock
// when the holder exits, crashes included.
type writeLocker struct {
	lockPath string
	lockFile *os.File
}

func newWriteLocker(dataDir string) *writeLocker {
	return &writeLocker{lockPath: filepath.Join(dataDir, lockFileName)}
}

// acquire polls for the exclusive lock until timeout.
func (l *writeLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	start := time.Now()
	for backoff := initialBackoff; ; backoff = min(backoff*2, maxBackoff) {
		if err := l.tryLock(); err == nil {
			l.stamp()
			return nil
		}
		if time.Since(start) >= timeout {
			f.Close()
			l.lockFile = nil
			return &LockTimeoutError{Waited: timeout, Holder: l.holder()}
		}
		time.Sleep(backoff)
	}
}

// release clears the holder record and drops the lock.
func (l *writeLocker) release() error {
	if l.lockFile == nil {
		return nil
	}
	l.lockFile.Truncate(0)
	l.unlock()
	err := l.lockFile.Close()
	l.lockFile = nil
	return err
}

func (l *writeLocker) stamp() {
	l.lockFile.Truncate(0)
	l.lockFile.Seek(0, 0)
	fmt.Fprintf(l.lockFile, "pid:%d\ntime:%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	l.lockFile.Sync()
}

func (l *writeLocker) holder() lockHolder {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return lockHolder{}
	}
	h := parseHolder(string(data))
	if h.PID != 0 && !isProcessAlive(h.PID) {
		h.Stale = true
	}
	return h
}
