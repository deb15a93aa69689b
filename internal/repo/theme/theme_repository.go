package theme

import (
	"context"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

// Repository provides the image sizes declared by the active theme.
type Repository interface {
	// Sizes returns the declared sizes in declaration order.
	Sizes(ctx context.Context) ([]domain.ThemeSize, error)

	// Close releases any resources held by the repository.
	Close() error
}

// StaticRepository serves a fixed list of sizes.
type StaticRepository []domain.ThemeSize

var _ Repository = StaticRepository(nil)

// Sizes implements Repository.Sizes.
func (r StaticRepository) Sizes(context.Context) ([]domain.ThemeSize, error) {
	return append([]domain.ThemeSize(nil), r...), nil
}

// Close implements Repository.Close.
func (r StaticRepository) Close() error {
	return nil
}
