package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedBootstrapAdmin creates the default administrator account so a fresh
// deployment can be logged into. Returns the created user; seeding an email
// that already exists is a no-op.
func SeedBootstrapAdmin(ctx context.Context, store Store, email, password string) (*User, error) {
	if existing, err := store.FindByEmail(ctx, email); err == nil {
		return &existing, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	admin := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Administrator",
		Role:         RoleAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := store.Save(ctx, admin); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return &admin, nil
}
