// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"boxcar-cli/internal/fileset"
)

// inputArchive builds the tar archive of a task's input fileset, with every
// entry placed under dest so that extracting at the container's filesystem
// root lands the files in the task's working directory. Symlinks are archived
// as symlinks; regular files keep their mode bits.
func inputArchive(root string, inputs, excluded []string, dest string) (io.Reader, error) {
	files, err := fileset.Files(root, inputs, excluded)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	prefix := strings.TrimPrefix(dest, "/")

	for _, f := range files {
		hdr, err := fileHeader(f, path.Join(prefix, f.RelPath))
		if err != nil {
			return nil, err
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("archive input file %s: %w", f.AbsPath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		src, err := os.Open(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("open input file %s: %w", f.AbsPath, err)
		}
		_, err = io.Copy(tw, src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("archive input file %s: %w", f.AbsPath, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func fileHeader(f fileset.File, name string) (*tar.Header, error) {
	if f.Mode&fs.ModeSymlink != 0 {
		target, err := os.Readlink(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("read symlink %s: %w", f.AbsPath, err)
		}
		return &tar.Header{
			Typeflag: tar.TypeSymlink,
			Name:     name,
			Linkname: target,
			Mode:     0o777,
		}, nil
	}

	info, err := os.Stat(f.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("stat input file %s: %w", f.AbsPath, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return nil, err
	}
	hdr.Name = name
	return hdr, nil
}
