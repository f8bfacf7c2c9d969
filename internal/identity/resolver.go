package identity

import (
	"context"
	"errors"

	"agility/internal/model"
	"agility/internal/repository"
)

// Resolver turns an identity-provider token into a persisted local profile.
// Resolution is idempotent: an unchanged token never causes a write after the
// profile's first creation.
type Resolver struct {
	verifier TokenVerifier
	users    repository.UserRepositoryInterface
}

func NewResolver(verifier TokenVerifier, users repository.UserRepositoryInterface) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve verifies the token, then creates or refreshes the local profile so
// it matches the token's claims. The returned user is the persisted state.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := r.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByID(ctx, claims.SubjectID)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &model.User{
			ID:              claims.SubjectID,
			Name:            claims.Name,
			Email:           claims.Email,
			ProfileImageURL: claims.PictureURL,
		}
		if err := r.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	// Field-by-field comparison against the claims; a single difference
	// replaces the whole profile, there are no partial patches.
	if user.Name != claims.Name || user.Email != claims.Email || user.ProfileImageURL != claims.PictureURL {
		user.Name = claims.Name
		user.Email = claims.Email
		user.ProfileImageURL = claims.PictureURL
		if err := r.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}
