package attachment_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/repo/attachment"
	"github.com/mkrupp/imgix-helper/internal/repo/sqlite"
)

func setupRepository(t *testing.T) *attachment.SQLiteAttachmentRepository {
	t.Helper()

	repo, err := attachment.NewSQLiteAttachmentRepository(sqlite.Config{
		DatabasePath: filepath.Join(t.TempDir(), "attachments.db"),
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return repo
}

func testAttachment() domain.Attachment {
	return domain.Attachment{
		ID:       7,
		Title:    "Sunset",
		MIMEType: "image/jpeg",
		File:     "2024/05/sunset.jpg",
		URL:      "https://site.test/uploads/2024/05/sunset.jpg",
		Metadata: domain.AttachmentMetadata{
			Width:  1600,
			Height: 1200,
			File:   "2024/05/sunset.jpg",
			Sizes: map[string]domain.VariantDescriptor{
				"thumbnail": {File: "sunset-150x150.jpg", Width: 150, Height: 150, Crop: true, MIMEType: "image/jpeg"},
			},
			ImageMeta: map[string]any{"camera": "X100"},
		},
	}
}

func TestSQLiteAttachmentRepository_StoreFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t)
	want := testAttachment()

	if _, ok, err := repo.Fetch(ctx, want.ID); err != nil || ok {
		t.Fatalf("Fetch() on empty store = %v, %v, want not found", ok, err)
	}

	if err := repo.Store(ctx, want); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, ok, err := repo.Fetch(ctx, want.ID)
	if err != nil || !ok {
		t.Fatalf("Fetch() = %v, %v", ok, err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fetch() = %+v, want %+v", got, want)
	}

	want.Title = "Sunrise"
	if err := repo.Store(ctx, want); err != nil {
		t.Fatalf("Store() replace error = %v", err)
	}

	if got, _, _ := repo.Fetch(ctx, want.ID); got.Title != "Sunrise" {
		t.Errorf("Fetch() title = %q, want %q", got.Title, "Sunrise")
	}
}

func TestSQLiteAttachmentRepository_UpdateMetadata(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t)
	a := testAttachment()

	if err := repo.Store(ctx, a); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	meta := domain.AttachmentMetadata{
		Width:  1600,
		Height: 1200,
		File:   a.File,
		Sizes: map[string]domain.VariantDescriptor{
			"medium": {File: "sunset.jpg?w=300&h=300", Width: 300, Height: 300, MIMEType: "image/jpeg"},
		},
	}

	if err := repo.UpdateMetadata(ctx, a.ID, meta); err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}

	got, _, err := repo.Fetch(ctx, a.ID)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if !reflect.DeepEqual(got.Metadata, meta) {
		t.Errorf("Fetch() metadata = %+v, want %+v", got.Metadata, meta)
	}

	if err := repo.UpdateMetadata(ctx, 99, meta); !errors.Is(err, domain.ErrAttachmentNotFound) {
		t.Errorf("UpdateMetadata() of unknown attachment error = %v, want %v", err, domain.ErrAttachmentNotFound)
	}
}
