package variantsvc

import (
	"context"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
)

// GIFFixPriority runs the GIF fix after the transform plugin rewrote the URL.
const GIFFixPriority = 99

// Host is what the deriver needs from the host media library. All lookups
// are read-only.
type Host interface {
	// Attachment returns the attachment with the given ID; false if unknown.
	Attachment(ctx context.Context, id domain.AttachmentID) (domain.Attachment, bool, error)

	// AttachmentURL returns the filtered URL of the original file.
	AttachmentURL(ctx context.Context, id domain.AttachmentID) (string, error)

	// IntermediateSizes returns the names of all registered sizes.
	IntermediateSizes(ctx context.Context) ([]string, error)

	// ThemeSizes returns the sizes declared by the active theme.
	ThemeSizes(ctx context.Context) ([]domain.ThemeSize, error)

	// Option returns a stored option value; false if unset.
	Option(ctx context.Context, key string) (string, bool, error)
}

// VariantService derives transform-service variants for attachments.
type VariantService interface {
	// Sizes resolves every registered size preset from current configuration.
	Sizes(ctx context.Context) (domain.SizeRegistry, error)

	// SizeParams computes the transform parameters for a requested size,
	// scaled by multiplier.
	SizeParams(
		ctx context.Context,
		size domain.SizeRequest,
		orig domain.Dimensions,
		multiplier int,
	) (domain.SizeParams, error)

	// AddImgixSizes adds a virtual variant per preset to image metadata.
	AddImgixSizes(ctx context.Context, meta domain.AttachmentMetadata, id domain.AttachmentID) domain.AttachmentMetadata

	// AddRetina adds 1x and 2x candidates to the srcset of an image tag.
	AddRetina(
		ctx context.Context,
		attrs domain.ImageAttributes,
		attachment domain.Attachment,
		size domain.SizeRequest,
	) domain.ImageAttributes

	// AllowSrcset allows srcset and sizes on sanitized img tags.
	AllowSrcset(ctx context.Context, allowed domain.AllowedHTML) domain.AllowedHTML

	// FixGIF removes auto=compress from GIF URLs.
	FixGIF(ctx context.Context, url string, id domain.AttachmentID) string
}

// Deriver implements VariantService on top of a Host. It keeps no state
// between calls; every operation reads configuration afresh.
type Deriver struct {
	host Host
	log  logging.Logger
}

var _ VariantService = (*Deriver)(nil)

// NewDeriver creates a Deriver reading from host.
func NewDeriver(host Host) *Deriver {
	return &Deriver{
		host: host,
		log:  logging.GetLogger("svc.variantsvc.deriver"),
	}
}

// Subscribe registers the deriver's callbacks with the host's hooks.
func (d *Deriver) Subscribe(hooks *hooksvc.Hooks) {
	hooks.OnAttachmentMetadataGenerated(hooksvc.DefaultPriority, d.AddImgixSizes)
	hooks.OnAttachmentImageAttributes(hooksvc.DefaultPriority, d.AddRetina)
	hooks.OnAllowedHTML(hooksvc.DefaultPriority, d.AllowSrcset)
	hooks.OnAttachmentURL(GIFFixPriority, d.FixGIF)
}
