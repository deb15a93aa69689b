package variantsvc

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

// AddImgixSizes implements VariantService.AddImgixSizes.
//
// For image attachments every preset gets a virtual variant whose file is the
// original file name plus the transform query, e.g. "photo.jpg?w=300&h=300&fit=crop".
// Existing sizes are kept unless a preset of the same name replaces them.
// Metadata of other attachments is returned unchanged, as is the input when
// the host cannot be read.
func (d *Deriver) AddImgixSizes(
	ctx context.Context,
	meta domain.AttachmentMetadata,
	id domain.AttachmentID,
) domain.AttachmentMetadata {
	out, err := d.addImgixSizes(ctx, meta, id)
	if err != nil {
		d.log.ErrorContext(ctx, "add imgix sizes failed", logging.Group("attachment", "id", id), "error", err)

		return meta
	}

	return out
}

func (d *Deriver) addImgixSizes(
	ctx context.Context,
	meta domain.AttachmentMetadata,
	id domain.AttachmentID,
) (domain.AttachmentMetadata, error) {
	attachment, ok, err := d.host.Attachment(ctx, id)
	if err != nil {
		return meta, fmt.Errorf("fetch attachment: %w", err)
	}

	if !ok || !attachment.IsImage() {
		return meta, nil
	}

	reg, err := d.Sizes(ctx)
	if err != nil {
		return meta, fmt.Errorf("resolve sizes: %w", err)
	}

	out := meta.Clone()
	if out.Sizes == nil {
		out.Sizes = make(map[string]domain.VariantDescriptor, reg.Len())
	}

	filename := filepath.Base(attachment.File)

	for _, preset := range reg.Presets() {
		out.Sizes[preset.Name] = domain.VariantDescriptor{
			File:     ImgixPath(filename, preset),
			Width:    preset.Width,
			Height:   preset.Height,
			Crop:     preset.Crop,
			MIMEType: attachment.MIMEType,
		}
	}

	d.log.DebugContext(ctx, "imgix sizes added", logging.Group("attachment",
		"id", id,
		"sizes", reg.Len(),
	))

	return out, nil
}

// ImgixPath returns filename with the transform query of preset appended.
// A preset without dimensions and crop yields "filename?".
func ImgixPath(filename string, preset domain.SizePreset) string {
	query := domain.SizeParams{W: preset.Width, H: preset.Height}.Query()

	if preset.Crop {
		query = query.Set("fit", "crop")
	}

	return filename + "?" + query.Encode()
}
