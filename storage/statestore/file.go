// Package statestore holds the appstate persisters backed by files and redis.
package statestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core/appstate"
)

// FilePersister keeps one JSON file per key under a directory.
type FilePersister struct {
	dir string
}

var _ appstate.Persister = (*FilePersister)(nil)

func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating state directory")
	}
	return &FilePersister{dir: dir}, nil
}

// path hashes the key so that any key maps to a safe file name.
func (p *FilePersister) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(p.dir, hex.EncodeToString(sum[:])+".json")
}

func (p *FilePersister) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(p.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appstate.ErrNoState
		}
		return nil, errors.Wrap(err, "reading state file")
	}
	return data, nil
}

// Save writes to a temp file first, then renames it over the previous state.
func (p *FilePersister) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(p.dir, "state-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp state file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing state file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing state file")
	}
	if err = os.Rename(tmp.Name(), p.path(key)); err != nil {
		return errors.Wrap(err, "renaming state file")
	}
	return nil
}
