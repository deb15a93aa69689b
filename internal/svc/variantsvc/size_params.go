package variantsvc

import (
	"context"
	"fmt"
	"math"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

// SizeParams implements VariantService.SizeParams. An unknown preset name
// yields empty params.
func (d *Deriver) SizeParams(
	ctx context.Context,
	size domain.SizeRequest,
	orig domain.Dimensions,
	multiplier int,
) (domain.SizeParams, error) {
	candidate, err := d.candidateParams(ctx, size)
	if err != nil {
		return domain.SizeParams{}, err
	}

	return FillSizeParams(candidate, orig, multiplier), nil
}

// candidateParams returns the unscaled dimensions a request asks for.
func (d *Deriver) candidateParams(ctx context.Context, size domain.SizeRequest) (domain.SizeParams, error) {
	if size.IsExplicit() {
		return domain.SizeParams{W: size.Width, H: size.Height}, nil
	}

	reg, err := d.Sizes(ctx)
	if err != nil {
		return domain.SizeParams{}, fmt.Errorf("resolve sizes: %w", err)
	}

	preset, ok := reg.Lookup(size.Name)
	if !ok {
		return domain.SizeParams{}, nil
	}

	return domain.SizeParams{W: preset.Width, H: preset.Height}, nil
}

// FillSizeParams completes candidate dimensions and scales them.
//
// Non-positive candidates are dropped. A missing width is derived from the
// height and the original aspect ratio, round(orig.Width * h / orig.Height).
// A missing height is deliberately left unset: emitted URLs carry only the
// width in that case. Scaling happens after the fill, so the fill always
// works on the unscaled height. A multiplier below 1 counts as 1.
func FillSizeParams(candidate domain.SizeParams, orig domain.Dimensions, multiplier int) domain.SizeParams {
	params := domain.SizeParams{
		W: max(candidate.W, 0),
		H: max(candidate.H, 0),
	}

	if params.W == 0 && params.H != 0 && orig.Width > 0 && orig.Height > 0 {
		params.W = int(math.Round(float64(orig.Width) * float64(params.H) / float64(orig.Height)))
	}

	return params.Scale(max(multiplier, 1))
}
