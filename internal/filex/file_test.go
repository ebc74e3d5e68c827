package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix path", "/etc/passwd", "passwd"},
		{"relative traversal", "../../secret.txt", "secret.txt"},
		{"windows path", `C:\Users\alice\secret.txt`, "secret.txt"},
		{"mixed separators", `dir\sub/inner\final.bin`, "final.bin"},
		{"empty", "", DefaultName},
		{"dot", ".", DefaultName},
		{"dotdot", "..", DefaultName},
		{"trailing slash", "dir/", DefaultName},
		{"hidden file", ".env", ".env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SafeName(tt.in))
		})
	}
}

func TestEnsureDir_CreatesNested(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "a", "b", "c")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "sub")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "taken")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	err := EnsureDir(path)
	require.Error(t, err)
}
