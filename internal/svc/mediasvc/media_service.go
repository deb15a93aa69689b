package mediasvc

import (
	"context"
	"errors"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

var ErrNotAnImage = errors.New("attachment is not an image")

// MediaService is the host media library as seen by HTTP clients.
type MediaService interface {
	// Store creates or replaces an attachment record.
	Store(ctx context.Context, attachment domain.Attachment) error

	// Attachment returns the attachment with the given ID; false if unknown.
	Attachment(ctx context.Context, id domain.AttachmentID) (domain.Attachment, bool, error)

	// AttachmentURL returns the URL of the original file after all
	// AttachmentURL callbacks ran.
	AttachmentURL(ctx context.Context, id domain.AttachmentID) (string, error)

	// GenerateMetadata regenerates and stores the metadata of an attachment.
	GenerateMetadata(ctx context.Context, id domain.AttachmentID) (domain.AttachmentMetadata, error)

	// ImageAttributes returns the <img> attributes for an image in the
	// requested size. Returns ErrNotAnImage for other attachments.
	ImageAttributes(ctx context.Context, id domain.AttachmentID, size domain.SizeRequest) (domain.ImageAttributes, error)

	// ImageTag renders the sanitized <img> tag for an image in the requested size.
	ImageTag(ctx context.Context, id domain.AttachmentID, size domain.SizeRequest) (string, error)

	// AllowedHTML returns the sanitizer allow-list.
	AllowedHTML(ctx context.Context) domain.AllowedHTML

	// NativeSizes returns the sizes the host still renders as files.
	NativeSizes(ctx context.Context) ([]string, error)
}
