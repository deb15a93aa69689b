package variantsvc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

const (
	srcsetAttr = "srcset"
	sizesAttr  = "sizes"
)

// AddRetina implements VariantService.AddRetina.
//
// The 1x and 2x variants of the requested size are merged into any srcset
// already present, replacing candidates with the same width, and sizes is set
// to the 1x width. Without a usable 1x width the attributes are returned
// unchanged, as they are when the host cannot be read.
func (d *Deriver) AddRetina(
	ctx context.Context,
	attrs domain.ImageAttributes,
	attachment domain.Attachment,
	size domain.SizeRequest,
) domain.ImageAttributes {
	out, err := d.addRetina(ctx, attrs, attachment, size)
	if err != nil {
		d.log.ErrorContext(ctx, "add retina failed", logging.Group("attachment",
			"id", attachment.ID,
			"size", size.String(),
		), "error", err)

		return attrs
	}

	return out
}

func (d *Deriver) addRetina(
	ctx context.Context,
	attrs domain.ImageAttributes,
	attachment domain.Attachment,
	size domain.SizeRequest,
) (domain.ImageAttributes, error) {
	candidate, err := d.candidateParams(ctx, size)
	if err != nil {
		return attrs, err
	}

	orig := attachment.Dimensions()
	params := FillSizeParams(candidate, orig, 1)
	retina := FillSizeParams(candidate, orig, 2)

	if params.W == 0 {
		return attrs, nil
	}

	imageURL, err := d.host.AttachmentURL(ctx, attachment.ID)
	if err != nil {
		return attrs, fmt.Errorf("attachment url: %w", err)
	}

	out := attrs.Clone()
	out[srcsetAttr] = RetinaSrcset(attrs[srcsetAttr], imageURL, params, retina)
	out[sizesAttr] = strconv.Itoa(params.W) + "px"

	return out, nil
}

// RetinaSrcset merges the candidates for params and retina into srcset.
func RetinaSrcset(srcset, imageURL string, params, retina domain.SizeParams) string {
	set := domain.ParseSrcset(srcset)

	set.Set(params.Descriptor(), domain.AddQueryArgs(imageURL, params.Query()))
	set.Set(retina.Descriptor(), domain.AddQueryArgs(imageURL, retina.Query()))

	return set.String()
}
