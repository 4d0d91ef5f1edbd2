package ports

import (
	"context"

	"github.com/striderun/stride-go/core"
)

// CredentialStore persists the access/refresh token pair between requests.
//
// Implementations keep the pair atomic from the caller's point of view:
// after SetCredentials both tokens are readable, after ClearCredentials
// neither is. ClearCredentials also removes any legacy single-token value
// left behind by pre-2.x clients.
type CredentialStore interface {
	// Credentials returns the stored pair, or core.ErrNoCredentials when
	// nothing is stored.
	Credentials(ctx context.Context) (core.Credentials, error)

	// SetCredentials stores both tokens, replacing any previous pair.
	SetCredentials(ctx context.Context, creds core.Credentials) error

	// ClearCredentials removes the pair and any legacy token value.
	ClearCredentials(ctx context.Context) error
}
