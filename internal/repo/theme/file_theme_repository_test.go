package theme_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkrupp/imgix-helper/internal/repo/theme"
)

const themeYAML = `
sizes:
  - name: post-thumbnail
    width: 1200
    height: 675
    crop: true
  - name: hero
    height: 600
`

func TestParseSizes(t *testing.T) {
	t.Parallel()

	sizes, err := theme.ParseSizes([]byte(themeYAML))
	if err != nil {
		t.Fatalf("ParseSizes() error = %v", err)
	}

	if len(sizes) != 2 {
		t.Fatalf("ParseSizes() = %d sizes, want 2", len(sizes))
	}

	post := sizes[0]
	if post.Name != "post-thumbnail" || post.Width == nil || *post.Width != 1200 ||
		post.Height == nil || *post.Height != 675 || post.Crop == nil || !*post.Crop {
		t.Errorf("ParseSizes()[0] = %+v", post)
	}

	hero := sizes[1]
	if hero.Name != "hero" || hero.Width != nil || hero.Height == nil || *hero.Height != 600 || hero.Crop != nil {
		t.Errorf("ParseSizes()[1] = %+v, want only height declared", hero)
	}
}

func TestParseSizes_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"duplicate name", "sizes:\n  - name: a\n  - name: a\n", theme.ErrDuplicateSize},
		{"invalid yaml", "sizes: [", nil},
		{"wrong type", "sizes:\n  - name: a\n    width: wide\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := theme.ParseSizes([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseSizes() error = nil")
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseSizes() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSizes_Empty(t *testing.T) {
	t.Parallel()

	sizes, err := theme.ParseSizes(nil)
	if err != nil || sizes == nil || len(sizes) != 0 {
		t.Errorf("ParseSizes(nil) = %v, %v, want empty list", sizes, err)
	}
}

func TestFileThemeRepository_NoPath(t *testing.T) {
	t.Parallel()

	repo, err := theme.NewFileThemeRepository(context.Background(), theme.FileThemeRepositoryConfig{})
	if err != nil {
		t.Fatalf("NewFileThemeRepository() error = %v", err)
	}
	defer repo.Close()

	if sizes, _ := repo.Sizes(context.Background()); len(sizes) != 0 {
		t.Errorf("Sizes() = %v, want none", sizes)
	}
}

func TestFileThemeRepository_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := theme.NewFileThemeRepository(context.Background(), theme.FileThemeRepositoryConfig{
		Path: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewFileThemeRepository() error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestFileThemeRepository_Reload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "theme.yaml")

	if err := os.WriteFile(path, []byte(themeYAML), 0o600); err != nil {
		t.Fatalf("failed to write theme file: %v", err)
	}

	repo, err := theme.NewFileThemeRepository(ctx, theme.FileThemeRepositoryConfig{Path: path, Watch: true})
	if err != nil {
		t.Fatalf("NewFileThemeRepository() error = %v", err)
	}
	defer repo.Close()

	if sizes, _ := repo.Sizes(ctx); len(sizes) != 2 {
		t.Fatalf("Sizes() = %d sizes, want 2", len(sizes))
	}

	if err := os.WriteFile(path, []byte("sizes:\n  - name: banner\n    width: 1920\n"), 0o600); err != nil {
		t.Fatalf("failed to write theme file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		sizes, _ := repo.Sizes(ctx)
		if len(sizes) == 1 && sizes[0].Name == "banner" && sizes[0].Width != nil && *sizes[0].Width == 1920 {
			break
		}

		if time.Now().After(deadline) {
			t.Fatalf("Sizes() = %+v, want reloaded banner size", sizes)
		}

		time.Sleep(20 * time.Millisecond)
	}
}
