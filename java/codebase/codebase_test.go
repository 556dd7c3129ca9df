package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jassist/proposal"
)

const source = `class A {
    void f(boolean a) {
        if (a) {
            x();
        } else {
            y();
        }
    }
}
`

func labels(props []*proposal.Proposal) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Label()
	}
	return out
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAssistsOnOpenFile(t *testing.T) {
	c := New(t.TempDir(), nil)
	path := filepath.Join(c.RootDir(), "A.java")
	c.UpdateFile(path, []byte(source))

	props, f, err := c.Assists(path, strings.Index(source, "(a)")+1, 0)
	require.NoError(t, err)
	assert.Equal(t, source, f.Document.Content())
	assert.Contains(t, labels(props), "Invert 'if' statement")
}

func TestAssistsOnUnknownFile(t *testing.T) {
	c := New(t.TempDir(), nil)
	_, _, err := c.Assists("Missing.java", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestSyntaxErrorsSuppressAssists(t *testing.T) {
	c := New(t.TempDir(), nil)
	broken := strings.Replace(source, "x();", "x(;", 1)
	f := c.UpdateFile("A.java", []byte(broken))
	require.Error(t, f.ParseErr)

	problems := f.Problems()
	require.NotEmpty(t, problems)
	assert.True(t, problems[0].IsError)

	props, _, err := c.Assists("A.java", strings.Index(broken, "(a)")+1, 0)
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestScanAllSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "src", "A.java"), source)
	write(t, filepath.Join(root, ".git", "B.java"), source)
	write(t, filepath.Join(root, "README.md"), "# readme")

	c := New(root, nil)
	require.NoError(t, c.ScanAll())
	assert.Equal(t, []string{filepath.Join(root, "src", "A.java")}, c.Paths())
}

func TestOpenFilesWinOverDisk(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "A.java")
	write(t, path, source)

	c := New(root, nil)
	require.NoError(t, c.ScanFile(path))
	assert.False(t, c.GetFile(path).Open)

	edited := strings.Replace(source, "y();", "z();", 1)
	c.UpdateFile(path, []byte(edited))
	require.NoError(t, c.ScanFile(path))
	assert.Equal(t, edited, c.GetFile(path).Document.Content())

	c.CloseFile(path)
	f := c.GetFile(path)
	require.NotNil(t, f)
	assert.False(t, f.Open)
	assert.Equal(t, source, f.Document.Content())
}

func TestWatcherTracksDisk(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "A.java")
	write(t, a, source)

	c := New(root, nil)
	w := NewFileWatcher(c, 0)
	assert.Equal(t, 1, w.scan())
	assert.Equal(t, 0, w.scan())
	assert.NotNil(t, c.GetFile(a))

	require.NoError(t, os.Remove(a))
	assert.Equal(t, 1, w.scan())
	assert.Nil(t, c.GetFile(a))
}
