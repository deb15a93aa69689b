package variantsvc

import (
	"context"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

const imgTag = "img"

// AllowSrcset implements VariantService.AllowSrcset.
func (d *Deriver) AllowSrcset(_ context.Context, allowed domain.AllowedHTML) domain.AllowedHTML {
	return AllowSrcsetAttributes(allowed)
}

// AllowSrcsetAttributes adds srcset and sizes to the img entry of an
// allow-list. An allow-list without img entry is returned unchanged.
func AllowSrcsetAttributes(allowed domain.AllowedHTML) domain.AllowedHTML {
	if attrs, ok := allowed[imgTag]; !ok || attrs == nil {
		return allowed
	}

	out := allowed.Clone()
	out[imgTag][srcsetAttr] = true
	out[imgTag][sizesAttr] = true

	return out
}
