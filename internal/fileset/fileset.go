// SPDX-License-Identifier: MPL-2.0

// Package fileset enumerates and digests a task's declared input fileset: the
// files under the task's input paths, minus its excluded paths. The digest
// feeds cache key derivation, so it must be deterministic across runs and
// platforms for identical file content; the enumeration also drives copying
// the same files into the task's container.
package fileset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"boxcar-cli/internal/cache"
)

// File is one file contributing to the fileset, identified by its
// slash-separated path relative to the fileset root.
type File struct {
	RelPath string
	AbsPath string
	Mode    fs.FileMode
}

// Files enumerates the fileset rooted at root described by the given input and
// excluded paths (both relative to root, slash-separated), in sorted
// relative-path order. An input path that does not exist is an error, since
// the task's command presumably needs it; an excluded path that matches
// nothing is not. Files reached through several overlapping input paths
// appear once.
func Files(root string, inputs, excluded []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, input := range inputs {
		start := filepath.Join(root, filepath.FromSlash(input))
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("walk input path %q: %w", input, err)
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			relPath := filepath.ToSlash(rel)

			if isExcluded(relPath, excluded) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || seen[relPath] {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat input file %s: %w", path, err)
			}

			seen[relPath] = true
			files = append(files, File{RelPath: relPath, AbsPath: path, Mode: info.Mode()})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Hash digests the fileset. Each file contributes its relative path, whether
// it is executable, and its content (the link target for symlinks), folded in
// sorted relative-path order.
func Hash(root string, inputs, excluded []string) (string, error) {
	files, err := Files(root, inputs, excluded)
	if err != nil {
		return "", err
	}

	key := cache.Hash("")
	for _, f := range files {
		key = cache.Combine(key, f.RelPath)

		executable := "-"
		if f.Mode&0o111 != 0 {
			executable = "x"
		}
		key = cache.Combine(key, executable)

		content, err := contentHash(f)
		if err != nil {
			return "", err
		}
		key = cache.Combine(key, content)
	}
	return key, nil
}

func contentHash(f File) (string, error) {
	if f.Mode&fs.ModeSymlink != 0 {
		target, err := os.Readlink(f.AbsPath)
		if err != nil {
			return "", fmt.Errorf("read symlink %s: %w", f.AbsPath, err)
		}
		return cache.Hash(target), nil
	}

	h, err := os.Open(f.AbsPath)
	if err != nil {
		return "", fmt.Errorf("open input file %s: %w", f.AbsPath, err)
	}
	defer h.Close()

	digest, err := cache.HashReader(h)
	if err != nil {
		return "", fmt.Errorf("hash input file %s: %w", f.AbsPath, err)
	}
	return digest, nil
}

// isExcluded reports whether relPath equals an excluded path or lies under one.
func isExcluded(relPath string, excluded []string) bool {
	for _, ex := range excluded {
		ex = strings.TrimSuffix(ex, "/")
		if relPath == ex || strings.HasPrefix(relPath, ex+"/") {
			return true
		}
	}
	return false
}
