package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/services"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the verified token identity to the context
func ctxWithIdentity(ctx context.Context, identity services.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the identity stored by authenticate
func ctxGetIdentity(ctx context.Context) (services.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(services.Identity)
	return identity, ok
}
