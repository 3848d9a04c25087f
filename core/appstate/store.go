package appstate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoState is returned by persisters that hold nothing under a key.
var ErrNoState = errors.New("no state")

type (
	// Persister stores serialized states by key.
	Persister interface {
		Load(ctx context.Context, key string) ([]byte, error)
		Save(ctx context.Context, key string, data []byte) error
	}

	Serializer interface {
		Marshal(s State) ([]byte, error)
		Unmarshal(data []byte) (State, error)
	}

	JSONSerializer struct{}
)

var _ Serializer = JSONSerializer{}

func (JSONSerializer) Marshal(s State) ([]byte, error) {
	return json.Marshal(s)
}

func (JSONSerializer) Unmarshal(data []byte) (State, error) {
	s := New()
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	if s.Favorites == nil {
		s.Favorites = []Favorite{}
	}
	return s, nil
}

// Store loads, updates and saves user states; updates of the same store never interleave.
type Store struct {
	mu         sync.Mutex
	persister  Persister
	serializer Serializer
}

func NewStore(persister Persister, serializer Serializer) *Store {
	if serializer == nil {
		serializer = JSONSerializer{}
	}
	return &Store{persister: persister, serializer: serializer}
}

func (st *Store) load(ctx context.Context, key string) (State, error) {
	data, err := st.persister.Load(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrNoState {
			return New(), nil
		}
		return State{}, errors.Wrap(err, "loading state")
	}
	s, err := st.serializer.Unmarshal(data)
	if err != nil {
		return State{}, errors.Wrap(err, "decoding state")
	}
	return s, nil
}

// Get returns the state saved under `key`, or a new one.
func (st *Store) Get(ctx context.Context, key string) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.load(ctx, key)
}

// Update applies `fn` to the state under `key` and saves it, unless `fn` fails.
func (st *Store) Update(ctx context.Context, key string, fn func(s *State) error) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.load(ctx, key)
	if err != nil {
		return State{}, err
	}
	if err = fn(&s); err != nil {
		return State{}, err
	}
	s.UpdatedAt = NowFunc().UTC()

	data, err := st.serializer.Marshal(s)
	if err != nil {
		return State{}, errors.Wrap(err, "encoding state")
	}
	if err = st.persister.Save(ctx, key, data); err != nil {
		return State{}, errors.Wrap(err, "saving state")
	}
	return s, nil
}

// MemoryPersister keeps states in process memory.
type MemoryPersister struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Persister = (*MemoryPersister)(nil)

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.data[key]
	if !ok {
		return nil, ErrNoState
	}
	return append([]byte(nil), data...), nil
}

func (p *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), data...)
	return nil
}
