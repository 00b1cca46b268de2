package identity

import (
	"context"
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pheme-social/pheme-service/internal/domain"
)

// ErrUnauthenticated is returned for any missing, malformed, expired or
// otherwise unverifiable session token. The sub-cases are deliberately not
// distinguishable by the caller.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserIdentity is the resolved identity of an authenticated caller.
type UserIdentity struct {
	ID   uint
	Name string
}

// Resolver turns an opaque session token into a caller identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (UserIdentity, error)
}

// DirectoryLookup is the slice of the user directory the resolver needs.
type DirectoryLookup interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// JWTResolver resolves session cookies issued by the auth service: an HS256
// JWT whose Issuer claim carries the numeric user ID. The username is not in
// the token; it is looked up in the directory so a deleted account is
// rejected even while its token is still formally valid.
type JWTResolver struct {
	secret    []byte
	directory DirectoryLookup
}

// NewJWTResolver creates a resolver with the shared auth-service secret.
func NewJWTResolver(secret string, directory DirectoryLookup) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), directory: directory}
}

// Resolve validates the token and returns the caller's identity.
func (r *JWTResolver) Resolve(ctx context.Context, token string) (UserIdentity, error) {
	if token == "" {
		return UserIdentity{}, ErrUnauthenticated
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return UserIdentity{}, ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return UserIdentity{}, ErrUnauthenticated
	}

	id, err := strconv.ParseUint(claims.Issuer, 10, 64)
	if err != nil || id == 0 {
		return UserIdentity{}, ErrUnauthenticated
	}

	user, err := r.directory.GetByID(ctx, uint(id))
	if err != nil {
		return UserIdentity{}, ErrUnauthenticated
	}

	return UserIdentity{ID: user.ID, Name: user.Name}, nil
}

// Ensure interface is satisfied at compile time.
var _ Resolver = (*JWTResolver)(nil)
