// Package orchestrator runs the toolchain's parallel stages (parsing,
// rule evaluation, export) over a worker pool sized to hardware
// parallelism and writes their outputs to disk atomically, per spec.md
// §5's concurrency and resource model.
package orchestrator

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileLock serializes concurrent writers to the same output path, both
// within this process (via refCnt/cond) and across processes (via an
// on-disk `.lock` sentinel file), adapted from the teacher's general
// file-locking primitive for the exporter/decompiler's output-writing path.
type FileLock struct {
	file   *os.File
	path   string
	locked bool
	mu     sync.Mutex
	cond   *sync.Cond
	refCnt int
}

// AtomicWriteConfig controls how AtomicWriter persists a rendered FHIR
// resource or decompiled FSH file to disk.
type AtomicWriteConfig struct {
	UseFsync       bool
	LockTimeout    time.Duration
	TempSuffix     string
	BackupOriginal bool
}

// DefaultAtomicConfig matches the exporter's default: no fsync (batched
// writes across an entire run favor throughput), a conservative lock
// timeout, and backups enabled so a run that corrupts output is recoverable.
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		LockTimeout:    5 * time.Second,
		TempSuffix:     ".fshlint.tmp",
		BackupOriginal: true,
	}
}

// AtomicWriter writes exporter/decompiler output via temp-file-then-rename
// so a crash mid-write never leaves a half-written resource on disk.
type AtomicWriter struct {
	config AtomicWriteConfig
	locks  map[string]*FileLock
	mu     sync.RWMutex
}

func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	return &AtomicWriter{config: config, locks: make(map[string]*FileLock)}
}

// WriteFile atomically writes content to path, backing up any existing
// file first when BackupOriginal is set.
func (aw *AtomicWriter) WriteFile(path string, content []byte) error {
	if err := aw.acquireLock(path); err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", path, err)
	}
	defer aw.releaseLock(path)

	originalInfo, statErr := os.Stat(path)
	var fileMode os.FileMode = 0o644
	if statErr == nil {
		fileMode = originalInfo.Mode()
	}

	if aw.config.BackupOriginal && statErr == nil {
		if err := aw.createBackup(path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}
	tempFile.Close()

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}
	return nil
}

func (aw *AtomicWriter) acquireLock(path string) error {
	lockPath := path + ".lock"

	aw.mu.Lock()
	lock, exists := aw.locks[path]
	if !exists {
		lock = &FileLock{}
		aw.locks[path] = lock
	}
	if lock.cond == nil {
		lock.cond = sync.NewCond(&lock.mu)
	}
	lock.path = lockPath
	lock.refCnt++
	aw.mu.Unlock()

	lock.mu.Lock()
	for lock.locked {
		lock.cond.Wait()
	}
	lock.mu.Unlock()

	deadline := time.Now().Add(aw.config.LockTimeout)
	for {
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			lock.mu.Lock()
			lock.file = lockFile
			lock.locked = true
			lock.mu.Unlock()
			fmt.Fprintf(lockFile, "%d\n", os.Getpid())
			lockFile.Sync()
			return nil
		}

		if os.IsExist(err) {
			if aw.isLockStale(lockPath) {
				os.Remove(lockPath)
				continue
			}
			if time.Now().After(deadline) {
				aw.decrementRefCount(path, lock)
				return fmt.Errorf("timeout waiting for lock on %s", path)
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		aw.decrementRefCount(path, lock)
		return fmt.Errorf("failed to create lock file: %w", err)
	}
}

func (aw *AtomicWriter) releaseLock(path string) error {
	aw.mu.RLock()
	lock, exists := aw.locks[path]
	aw.mu.RUnlock()
	if !exists {
		return nil
	}

	lock.mu.Lock()
	if lock.locked {
		lock.file.Close()
		os.Remove(lock.path)
		lock.locked = false
		lock.file = nil
		lock.cond.Broadcast()
	}
	lock.refCnt--
	remove := lock.refCnt == 0
	lock.mu.Unlock()

	if remove {
		aw.mu.Lock()
		if l, ok := aw.locks[path]; ok {
			l.mu.Lock()
			if l.refCnt == 0 && !l.locked {
				delete(aw.locks, path)
			}
			l.mu.Unlock()
		}
		aw.mu.Unlock()
	}
	return nil
}

func (aw *AtomicWriter) isLockStale(lockPath string) bool {
	content, err := os.ReadFile(lockPath)
	if err != nil {
		return true
	}
	var pid int
	if _, err := fmt.Sscanf(string(content), "%d", &pid); err != nil {
		return true
	}
	return !isProcessAlive(pid)
}

func (aw *AtomicWriter) createBackup(originalPath string) error {
	info, err := os.Stat(originalPath)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}
	timestamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.bak.%s", originalPath, timestamp)

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(backupPath, content, perm); err != nil {
		return err
	}
	return os.Chmod(backupPath, perm)
}

// Cleanup releases every held lock, called on run shutdown.
func (aw *AtomicWriter) Cleanup() {
	aw.mu.RLock()
	paths := make([]string, 0, len(aw.locks))
	for path := range aw.locks {
		paths = append(paths, path)
	}
	aw.mu.RUnlock()

	for _, path := range paths {
		aw.releaseLock(path)
	}
}

func (aw *AtomicWriter) decrementRefCount(path string, lock *FileLock) {
	lock.mu.Lock()
	if lock.refCnt > 0 {
		lock.refCnt--
	}
	remove := lock.refCnt == 0 && !lock.locked
	lock.mu.Unlock()

	if remove {
		aw.mu.Lock()
		if l, ok := aw.locks[path]; ok {
			l.mu.Lock()
			if l.refCnt == 0 && !l.locked {
				delete(aw.locks, path)
			}
			l.mu.Unlock()
		}
		aw.mu.Unlock()
	}
}
