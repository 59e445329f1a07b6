package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shipway/pkg/errors"
	"github.com/arthur-debert/shipway/pkg/filesystem"
)

type entry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

func buildArchive(t *testing.T, entries []entry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		typeflag := e.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		mode := e.mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     mode,
			Size:     int64(len(e.body)),
			Typeflag: typeflag,
			Linkname: e.linkname,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "release.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestExtractTarGz(t *testing.T) {
	src := buildArchive(t, []entry{
		{name: "a.txt", body: "alpha"},
		{name: "b", typeflag: tar.TypeDir, mode: 0755},
		{name: "b/c.txt", body: "charlie"},
	})
	dest := t.TempDir()
	fsys := filesystem.NewOS()

	require.NoError(t, ExtractTarGz(fsys, src, dest))

	a, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(a))

	c, err := os.ReadFile(filepath.Join(dest, "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "charlie", string(c))
}

func TestExtractPreservesMode(t *testing.T) {
	src := buildArchive(t, []entry{
		{name: "bin/run.sh", body: "#!/bin/sh\n", mode: 0755},
	})
	dest := t.TempDir()

	require.NoError(t, ExtractTarGz(filesystem.NewOS(), src, dest))

	info, err := os.Stat(filepath.Join(dest, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestExtractCreatesMissingParents(t *testing.T) {
	// Archive without explicit directory entries
	src := buildArchive(t, []entry{
		{name: "deep/nested/file.txt", body: "x"},
	})
	dest := t.TempDir()

	require.NoError(t, ExtractTarGz(filesystem.NewOS(), src, dest))
	assert.FileExists(t, filepath.Join(dest, "deep", "nested", "file.txt"))
}

func TestExtractSymlink(t *testing.T) {
	src := buildArchive(t, []entry{
		{name: "data.txt", body: "payload"},
		{name: "link.txt", typeflag: tar.TypeSymlink, linkname: "data.txt"},
	})
	dest := t.TempDir()

	require.NoError(t, ExtractTarGz(filesystem.NewOS(), src, dest))

	target, err := os.Readlink(filepath.Join(dest, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data.txt", target)
}

func TestExtractMissingArchive(t *testing.T) {
	err := ExtractTarGz(filesystem.NewOS(), filepath.Join(t.TempDir(), "nope.tar.gz"), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveMissing))
}

func TestExtractCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("this is not gzip"), 0644))

	err := ExtractTarGz(filesystem.NewOS(), path, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveExtract))
}

func TestExtractRejectsTraversal(t *testing.T) {
	src := buildArchive(t, []entry{
		{name: "../evil.txt", body: "nope"},
	})
	dest := t.TempDir()

	err := ExtractTarGz(filesystem.NewOS(), src, dest)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveExtract))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
}

func TestEntryPath(t *testing.T) {
	path, err := entryPath("/srv/app/releases/x", "bin/run")
	require.NoError(t, err)
	assert.Equal(t, "/srv/app/releases/x/bin/run", path)

	path, err = entryPath("/srv/app/releases/x", "./")
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = entryPath("/srv/app/releases/x", "/etc/passwd")
	require.Error(t, err)

	_, err = entryPath("/srv/app/releases/x", "../../escape")
	require.Error(t, err)
}
