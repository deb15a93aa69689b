package option

import (
	"context"
)

// Repository is the host's option store.
type Repository interface {
	// Get returns the stored value of key. The bool is false if the option
	// does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or replaces the value of key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing option is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory creates a new Repository.
type RepositoryFactory func() (Repository, error)

// OverridingRepository answers reads of selected keys with fixed values and
// delegates everything else.
type OverridingRepository struct {
	Repository

	overrides map[string]string
}

var _ Repository = (*OverridingRepository)(nil)

// NewOverridingRepository wraps repo so reads of the given keys return the
// given values regardless of what is stored.
func NewOverridingRepository(repo Repository, overrides map[string]string) *OverridingRepository {
	return &OverridingRepository{
		Repository: repo,
		overrides:  overrides,
	}
}

// Get implements Repository.Get.
func (r *OverridingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if value, ok := r.overrides[key]; ok {
		return value, true, nil
	}

	//nolint:wrapcheck
	return r.Repository.Get(ctx, key)
}
