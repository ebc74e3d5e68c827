// Package storage is the content store: session-scoped byte storage with
// atomic commit semantics. Uploads stream into a temporary spool file; only
// a successfully verified upload is promoted, so a partial artifact is never
// visible under its final name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/filex"
)

// ArtifactStore stores exactly one artifact per session, addressed by the
// session id plus the sanitized declared file name.
type ArtifactStore interface {
	// Begin opens a temporary sink for a session's upload. The caller must
	// finish with exactly one Commit or Abort; Abort after a failed Commit
	// is safe.
	Begin(ctx context.Context, sessionID string) (ArtifactWriter, error)

	// Open streams a committed artifact. A missing artifact yields
	// common.ErrArtifactMissing.
	Open(ctx context.Context, sessionID, fileName string) (io.ReadCloser, error)
}

// ArtifactWriter receives the upload bytes and decides their fate.
type ArtifactWriter interface {
	io.Writer

	// Commit atomically promotes the spooled bytes to the artifact addressed
	// by fileName (sanitized to its final path segment).
	Commit(ctx context.Context, fileName string) error

	// Abort discards the spooled bytes. Calling it after Commit is a no-op.
	Abort() error
}

// LocalStore keeps artifacts on the local filesystem under root/<session>/.
// Promotion is a single os.Rename, which is atomic within the root.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := filex.EnsureDir(root); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) sessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

func (s *LocalStore) Begin(_ context.Context, sessionID string) (ArtifactWriter, error) {
	dir := s.sessionDir(sessionID)
	if err := filex.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	f, err := os.CreateTemp(dir, ".upload-*.part")
	if err != nil {
		return nil, fmt.Errorf("%w: create spool: %w", common.ErrStorage, err)
	}

	return &localWriter{file: f, dir: dir}, nil
}

func (s *LocalStore) Open(_ context.Context, sessionID, fileName string) (io.ReadCloser, error) {
	path := filepath.Join(s.sessionDir(sessionID), filex.SafeName(fileName))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrArtifactMissing
		}
		return nil, fmt.Errorf("%w: open artifact: %w", common.ErrStorage, err)
	}
	return f, nil
}

type localWriter struct {
	file *os.File
	dir  string
	done bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *localWriter) Commit(_ context.Context, fileName string) error {
	if w.done {
		return nil
	}

	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("%w: sync spool: %w", common.ErrStorage, err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("%w: close spool: %w", common.ErrStorage, err)
	}

	target := filepath.Join(w.dir, filex.SafeName(fileName))
	if err := os.Rename(w.file.Name(), target); err != nil {
		return fmt.Errorf("%w: promote artifact: %w", common.ErrStorage, err)
	}

	w.done = true
	return nil
}

func (w *localWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove spool: %w", common.ErrStorage, err)
	}
	return nil
}
