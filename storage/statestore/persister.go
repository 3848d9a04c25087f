package statestore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
)

// NewPersister returns the persister named by the state config: memory (default), file or redis.
// The returned func releases the persister resources.
func NewPersister(ctx context.Context, conf core.StateConfig) (appstate.Persister, func() error, error) {
	noop := func() error { return nil }

	switch conf.Backend {
	case "", "memory":
		return appstate.NewMemoryPersister(), noop, nil
	case "file":
		p, err := NewFilePersister(conf.Dir)
		if err != nil {
			return nil, nil, err
		}
		return p, noop, nil
	case "redis":
		client, err := NewRedisClient(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisPersister(client, conf.TTL), client.Close, nil
	}
	return nil, nil, errors.Errorf("unknown state backend %q", conf.Backend)
}
