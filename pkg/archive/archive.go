// Package archive extracts gzip-compressed tar release archives.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/shipway/pkg/errors"
	"github.com/arthur-debert/shipway/pkg/types"
)

// ExtractTarGz extracts the archive at src into dest. The destination
// directory must already exist. Entries that would escape dest are
// rejected. Regular files, directories, and symlinks are supported;
// file modes from the archive are preserved.
func ExtractTarGz(fsys types.FS, src, dest string) error {
	reader, err := fsys.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrArchiveMissing, "release archive not found at %s", src)
		}
		return errors.Wrapf(err, errors.ErrArchiveMissing, "cannot open release archive at %s", src)
	}
	defer func() { _ = reader.Close() }()

	gz, err := gzip.NewReader(reader)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "archive at %s is not valid gzip", src)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveExtract, "corrupt tar data in %s", src)
		}

		target, err := entryPath(dest, hdr.Name)
		if err != nil {
			return err
		}
		if target == "" {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fsys.MkdirAll(target, fs.FileMode(hdr.Mode)&fs.ModePerm); err != nil {
				return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot create directory %s", target)
			}
		case tar.TypeReg:
			if err := extractFile(fsys, tr, hdr, target); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := fsys.Symlink(hdr.Linkname, target); err != nil {
				return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot create symlink %s", target)
			}
		default:
			// Character devices, fifos etc. have no place in a release archive
			continue
		}
	}
}

func extractFile(fsys types.FS, tr *tar.Reader, hdr *tar.Header, target string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot create parent directory for %s", target)
	}

	data, err := io.ReadAll(tr)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot read archive entry %s", hdr.Name)
	}

	mode := fs.FileMode(hdr.Mode) & fs.ModePerm
	if err := fsys.WriteFile(target, data, mode); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot write %s", target)
	}

	// WriteFile honors umask; reassert the archived mode
	if err := fsys.Chmod(target, mode); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "cannot set mode on %s", target)
	}

	return nil
}

// entryPath resolves an archive entry name below dest, rejecting names
// that climb out of the extraction root. Returns the empty string for
// entries that resolve to dest itself.
func entryPath(dest, name string) (string, error) {
	clean := filepath.Clean(strings.TrimSpace(name))
	if clean == "." || clean == "" {
		return "", nil
	}
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", errors.Newf(errors.ErrArchiveExtract, "archive entry %q escapes extraction root", name)
	}
	return filepath.Join(dest, clean), nil
}
