// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// CopyFrom copies each of the given paths (relative to sourceDir inside the
// container) into destDir on the host, preserving their relative layout.
//
// "container cp" is not idempotent: copying container:/foo to an existing host
// directory /bar yields /bar/foo instead of replacing /bar. Each path is
// therefore copied into a fresh temporary directory first, where the target is
// guaranteed not to exist, and then moved into place.
func (e *BaseCLIEngine) CopyFrom(ctx context.Context, id ContainerID, paths []string, sourceDir, destDir string) error {
	for _, p := range paths {
		if err := e.copyOnePath(ctx, id, p, sourceDir, destDir); err != nil {
			return err
		}
	}
	return nil
}

func (e *BaseCLIEngine) copyOnePath(ctx context.Context, id ContainerID, relPath, sourceDir, destDir string) error {
	tempDir, err := os.MkdirTemp("", "boxcar-copy-")
	if err != nil {
		return &OpError{Op: "copy from container", Kind: FailureSystem,
			Cause: fmt.Errorf("create temporary directory: %w", err)}
	}
	defer os.RemoveAll(tempDir)

	source := path.Join(sourceDir, relPath)
	intermediate := filepath.Join(tempDir, "data")
	destination := filepath.Join(destDir, filepath.FromSlash(relPath))

	err = e.RunCommandStatus(ctx,
		"container", "cp", fmt.Sprintf("%s:%s", id, source), intermediate)
	if err != nil {
		return opError(ctx, "copy from container", err)
	}

	info, err := os.Lstat(intermediate)
	if err != nil {
		return &OpError{Op: "copy from container", Kind: FailureSystem,
			Cause: fmt.Errorf("stat copied path: %w", err)}
	}

	if info.IsDir() {
		err = moveTree(intermediate, destination)
	} else {
		if err = os.MkdirAll(filepath.Dir(destination), 0o755); err == nil {
			err = moveEntry(intermediate, destination)
		}
	}
	if err != nil {
		return &OpError{Op: "copy from container", Kind: FailureSystem, Cause: err}
	}
	return nil
}

// moveTree replicates the directory tree at src under dest, moving files and
// symlinks and creating directories.
func moveTree(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("traverse %s: %w", src, err)
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			return nil
		}
		return moveEntry(p, target)
	})
}

// moveEntry moves one file or symlink into place. Rename can fail when source
// and destination sit on different filesystems (tmpfs /tmp is common), in
// which case the entry is copied instead.
func moveEntry(src, dest string) error {
	if os.Rename(src, dest) == nil {
		return nil
	}

	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return fmt.Errorf("read symlink %s: %w", src, err)
		}
		if err := os.Symlink(target, dest); err != nil {
			return fmt.Errorf("create symlink %s: %w", dest, err)
		}
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dest, err)
	}
	return nil
}
