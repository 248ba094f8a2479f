package db

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/auth"

	"go-wastewise/types"
)

// TokenVerifier resolves a bearer token to a user identity via Firebase Auth.
type TokenVerifier struct {
	Client *fbauth.Client
}

// Verify checks the ID token and returns the user's UID.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (string, error) {
	decoded, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}
	return decoded.UID, nil
}
