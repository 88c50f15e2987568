package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	buildLockDirName   = ".build.lock"
	buildLockOwnerFile = "owner.json"
)

// BuildLock serializes manifest builds targeting the same manifests directory.
type BuildLock struct {
	lockDir string
}

type buildLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireBuildLock(manifestsDir string) (BuildLock, error) {
	target := strings.TrimSpace(manifestsDir)
	if target == "" {
		return BuildLock{}, fmt.Errorf("manifests directory is required")
	}
	if err := Mkdir(target); err != nil {
		return BuildLock{}, err
	}

	lockDir := filepath.Join(target, buildLockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, buildLockOwnerFile)
			var owner buildLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return BuildLock{}, fmt.Errorf(
					"manifests directory is locked: %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return BuildLock{}, fmt.Errorf("manifests directory is locked: %s", target)
		}
		return BuildLock{}, fmt.Errorf("acquire build lock for %s: %w", target, err)
	}

	owner := buildLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, buildLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return BuildLock{}, fmt.Errorf("write build lock owner for %s: %w", target, err)
	}

	return BuildLock{lockDir: lockDir}, nil
}

func (l BuildLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, buildLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release build lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
