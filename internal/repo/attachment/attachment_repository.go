package attachment

import (
	"context"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

// Repository is the host's attachment store.
type Repository interface {
	// Fetch returns the attachment with the given ID. The bool is false if
	// no such attachment exists.
	Fetch(ctx context.Context, id domain.AttachmentID) (domain.Attachment, bool, error)

	// Store creates or replaces an attachment record.
	Store(ctx context.Context, attachment domain.Attachment) error

	// UpdateMetadata replaces the metadata of an existing attachment.
	// Returns ErrAttachmentNotFound if there is none.
	UpdateMetadata(ctx context.Context, id domain.AttachmentID, meta domain.AttachmentMetadata) error

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory creates a new Repository.
type RepositoryFactory func() (Repository, error)
