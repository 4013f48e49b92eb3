package gatekeeper

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"copyd/internal/config"
	"copyd/internal/interfaces"
	"copyd/internal/sanitizer"

	"golang.org/x/sys/unix"
)

// Gatekeeper admits copy requests: it checks paths and destination capacity
// before a job is created.
type Gatekeeper struct {
	config *config.Config
	statfs func(path string, stat *unix.Statfs_t) error
}

func New(cfg *config.Config) *Gatekeeper {
	return &Gatekeeper{
		config: cfg,
		statfs: unix.Statfs,
	}
}

func deny(reason string, details map[string]interface{}) interfaces.GateDecision {
	return interfaces.GateDecision{Allowed: false, Reason: reason, Details: details}
}

// CanStartCopy checks if a copy from source to destination can be created.
// An allowed decision carries the cleaned paths and the source size.
func (g *Gatekeeper) CanStartCopy(source, destination string) interfaces.GateDecision {
	src, err := sanitizer.CleanPath(source)
	if err != nil {
		return deny(fmt.Sprintf("Invalid source path: %v", err), nil)
	}
	dst, err := sanitizer.CleanPath(destination)
	if err != nil {
		return deny(fmt.Sprintf("Invalid destination path: %v", err), nil)
	}

	// Rule 1: source must exist
	srcInfo, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return deny("Source path does not exist", map[string]interface{}{"source": src})
		}
		return deny(fmt.Sprintf("Unable to read source: %v", err), nil)
	}

	// Rule 2: source and destination must be different entities
	if samePath(src, dst) {
		return deny("Source and destination point to the same entity", nil)
	}

	dstInfo, err := os.Stat(dst)
	if err == nil && dstInfo.IsDir() && !srcInfo.IsDir() {
		return deny("Destination is an existing directory", map[string]interface{}{"destination": dst})
	}

	// Rule 3: a directory cannot be copied into itself
	if srcInfo.IsDir() && sanitizer.IsWithin(resolve(src), resolve(dst)) {
		return deny("Destination is inside the source directory", nil)
	}

	size, err := sourceSize(src, srcInfo)
	if err != nil {
		return deny(fmt.Sprintf("Unable to size source: %v", err), nil)
	}

	// Rule 4: destination filesystem must hold the copy plus the configured reserve
	free, err := g.freeBytes(dst)
	if err != nil {
		slog.Error("failed to check destination disk stats", "destination", dst, "error", err)
		return deny("Unable to verify disk space", nil)
	}
	reserve := g.config.GetJobs().MinFreeBytes()
	if free < size+reserve {
		return deny("Insufficient disk space at destination", map[string]interface{}{
			"required_bytes":  size + reserve,
			"available_bytes": free,
			"reserve_bytes":   reserve,
		})
	}

	return interfaces.GateDecision{
		Allowed:     true,
		Reason:      "All checks passed",
		Source:      src,
		Destination: dst,
		SourceSize:  size,
	}
}

// DiskStatus reports space on the filesystem that holds path, or that would
// hold it once created.
func (g *Gatekeeper) DiskStatus(path string) (interfaces.DiskStatus, error) {
	stat, err := g.stat(path)
	if err != nil {
		return interfaces.DiskStatus{}, err
	}

	free := int64(stat.Bavail * uint64(stat.Bsize))
	total := int64(stat.Blocks * uint64(stat.Bsize))

	status := interfaces.DiskStatus{Path: path, FreeBytes: free, TotalBytes: total}
	if total > 0 {
		status.UsagePct = float64(total-free) / float64(total) * 100
	}
	return status, nil
}

func (g *Gatekeeper) freeBytes(path string) (int64, error) {
	stat, err := g.stat(path)
	if err != nil {
		return 0, err
	}
	return int64(stat.Bavail * uint64(stat.Bsize)), nil
}

func (g *Gatekeeper) stat(path string) (*unix.Statfs_t, error) {
	var stat unix.Statfs_t
	if err := g.statfs(existingAncestor(path), &stat); err != nil {
		return nil, fmt.Errorf("failed to stat filesystem for %s: %w", path, err)
	}
	return &stat, nil
}

// existingAncestor walks up from path to the first directory entry that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// resolve follows symlinks in the longest existing prefix of path.
func resolve(path string) string {
	base := existingAncestor(path)
	resolved, err := filepath.EvalSymlinks(base)
	if err != nil {
		return path
	}
	rest, err := filepath.Rel(base, path)
	if err != nil || rest == "." {
		return resolved
	}
	return filepath.Join(resolved, rest)
}

func samePath(a, b string) bool {
	if resolve(a) == resolve(b) {
		return true
	}
	aInfo, errA := os.Stat(a)
	bInfo, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(aInfo, bInfo)
}

func sourceSize(path string, info fs.FileInfo) (int64, error) {
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
		}
		return nil
	})
	return total, err
}
