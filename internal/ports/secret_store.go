package ports

import "context"

// SecretStore resolves an account secret by reference key.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
}
