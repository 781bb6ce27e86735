package store

import (
	"context"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
)

// APIKeysStore abstracts storage of encrypted provider keys. It also
// persists the key state changes of the providers.KeyManager.
type APIKeysStore interface {
	providers.KeyStateStore

	// ListKeys returns every stored key, decrypted.
	ListKeys(ctx context.Context) ([]model.APIKey, error)
	// ActiveKeys returns the decrypted active keys.
	ActiveKeys(ctx context.Context) ([]model.APIKey, error)
	GetKey(ctx context.Context, id uint) (*model.APIKey, error)
	// AddKey encrypts and stores key; a known key yields ErrConflict.
	AddKey(ctx context.Context, key *model.APIKey) error
}
