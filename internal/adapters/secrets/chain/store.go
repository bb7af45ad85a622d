package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/bnema/paymail/internal/adapters/secrets/env"
	filestore "github.com/bnema/paymail/internal/adapters/secrets/file"
	passstore "github.com/bnema/paymail/internal/adapters/secrets/pass"
	"github.com/bnema/paymail/internal/ports"
)

// Store asks each backend in order and returns the first value found.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("secret store backend %d is nil", i)
		}
	}

	return &Store{backends: backends}, nil
}

// NewEnvFirst resolves from the environment, then pass when enabled, then
// files under fileRoot.
func NewEnvFirst(fileRoot string, usePass bool) *Store {
	backends := []ports.SecretStore{envstore.NewStore()}
	if usePass {
		backends = append(backends, passstore.NewStore())
	}
	backends = append(backends, filestore.NewStore(fileRoot))

	return NewStore(backends...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get failed: %w", i+1, err))
	}

	return "", errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
