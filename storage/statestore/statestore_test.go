package statestore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
)

func TestFilePersister(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)

	_, err = p.Load(ctx, "user/1")
	assert.Equal(t, appstate.ErrNoState, err)

	require.NoError(t, p.Save(ctx, "user/1", []byte(`{"language":"fr"}`)))
	require.NoError(t, p.Save(ctx, "user/1", []byte(`{"language":"ar"}`)))

	data, err := p.Load(ctx, "user/1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"ar"}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestFilePersister_withStore(t *testing.T) {
	ctx := context.Background()
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)
	st := appstate.NewStore(p, appstate.JSONSerializer{})

	_, err = st.Update(ctx, "u1", func(s *appstate.State) error {
		_, err := s.AddFavorite(appstate.Favorite{ProgramID: "10101"})
		return err
	})
	require.NoError(t, err)

	s, err := appstate.NewStore(p, nil).Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, s.Favorites, 1)
	assert.Equal(t, "10101", s.Favorites[0].ProgramID)
}

func TestNewPersister(t *testing.T) {
	ctx := context.Background()

	p, closeFn, err := NewPersister(ctx, core.StateConfig{})
	require.NoError(t, err)
	assert.IsType(t, &appstate.MemoryPersister{}, p)
	assert.NoError(t, closeFn())

	p, _, err = NewPersister(ctx, core.StateConfig{Backend: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FilePersister{}, p)

	_, _, err = NewPersister(ctx, core.StateConfig{Backend: "etcd"})
	assert.Error(t, err)
}
