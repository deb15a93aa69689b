package variantsvc

import (
	"context"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

const (
	autoParam     = "auto"
	autoCompress  = "compress"
	gifExtension  = ".gif"
	autoSeparator = ","
)

// FixGIF implements VariantService.FixGIF.
func (d *Deriver) FixGIF(ctx context.Context, rawURL string, id domain.AttachmentID) string {
	fixed := FixGIFURL(rawURL)

	if fixed != rawURL {
		d.log.DebugContext(ctx, "gif auto compress removed", logging.Group("attachment",
			"id", id,
			"url", fixed,
		))
	}

	return fixed
}

// FixGIFURL removes the compress token from the auto parameter of GIF URLs,
// since the transform service breaks animations when compressing them. The
// corrected auto parameter moves to the end of the query. URLs of other
// files, without query or without auto are returned unchanged.
func FixGIFURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Ext(u.Path) != gifExtension || u.RawQuery == "" {
		return rawURL
	}

	auto, ok := domain.ParseQuery(u.RawQuery).Get(autoParam)
	if !ok || auto == "" {
		return rawURL
	}

	tokens := slices.DeleteFunc(strings.Split(auto, autoSeparator), func(token string) bool {
		return token == autoCompress
	})

	fixed := domain.RemoveQueryArg(rawURL, autoParam)

	return domain.AddQueryArgs(fixed, domain.Query{{Key: autoParam, Value: strings.Join(tokens, autoSeparator)}})
}
