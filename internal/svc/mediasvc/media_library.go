package mediasvc

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/repo/attachment"
	"github.com/mkrupp/imgix-helper/internal/repo/option"
	"github.com/mkrupp/imgix-helper/internal/repo/theme"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
	"github.com/mkrupp/imgix-helper/internal/svc/variantsvc"
)

// MediaLibrary is the host media library. It stores attachments and options
// and runs the registered hooks whenever it resolves URLs, metadata or image
// attributes. It doubles as the Host of the variant deriver.
type MediaLibrary struct {
	attachments attachment.Repository
	options     option.Repository
	theme       theme.Repository
	hooks       *hooksvc.Hooks
	cfg         MediaConfig
	log         logging.Logger
}

var (
	_ MediaService    = (*MediaLibrary)(nil)
	_ variantsvc.Host = (*MediaLibrary)(nil)
)

// NewMediaLibrary creates a MediaLibrary on top of the given repositories.
// The library does not own the repositories; closing them is up to the caller.
func NewMediaLibrary(
	attachments attachment.Repository,
	options option.Repository,
	themeRepo theme.Repository,
	hooks *hooksvc.Hooks,
	cfg MediaConfig,
) *MediaLibrary {
	return &MediaLibrary{
		attachments: attachments,
		options:     options,
		theme:       themeRepo,
		hooks:       hooks,
		cfg:         cfg,
		log:         logging.GetLogger("svc.mediasvc.media_library"),
	}
}

// Store implements MediaService.Store.
func (lib *MediaLibrary) Store(ctx context.Context, a domain.Attachment) (err error) {
	log := lib.log.With(logging.Group("attachment", "id", a.ID, "file", a.File))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "attachment store failed", "error", err)
		} else {
			log.DebugContext(ctx, "attachment stored")
		}
	}()

	if a.ID <= 0 {
		return domain.ErrInvalidAttachment
	}

	if err := lib.attachments.Store(ctx, a); err != nil {
		return fmt.Errorf("store attachment: %w", err)
	}

	return nil
}

// Attachment implements MediaService.Attachment and variantsvc.Host.
func (lib *MediaLibrary) Attachment(ctx context.Context, id domain.AttachmentID) (domain.Attachment, bool, error) {
	a, ok, err := lib.attachments.Fetch(ctx, id)
	if err != nil {
		return domain.Attachment{}, false, fmt.Errorf("fetch attachment: %w", err)
	}

	return a, ok, nil
}

func (lib *MediaLibrary) mustAttachment(ctx context.Context, id domain.AttachmentID) (domain.Attachment, error) {
	a, ok, err := lib.Attachment(ctx, id)
	if err != nil {
		return domain.Attachment{}, err
	}

	if !ok {
		return domain.Attachment{}, fmt.Errorf("%w: %s", domain.ErrAttachmentNotFound, id)
	}

	return a, nil
}

// AttachmentURL implements MediaService.AttachmentURL and variantsvc.Host.
func (lib *MediaLibrary) AttachmentURL(ctx context.Context, id domain.AttachmentID) (string, error) {
	a, err := lib.mustAttachment(ctx, id)
	if err != nil {
		return "", err
	}

	return lib.hooks.ApplyAttachmentURL(ctx, a.URL, id), nil
}

// IntermediateSizes implements variantsvc.Host. It returns the configured
// host sizes followed by theme sizes not already among them.
func (lib *MediaLibrary) IntermediateSizes(ctx context.Context) ([]string, error) {
	names := slices.Clone(lib.cfg.IntermediateSizes)

	themeSizes, err := lib.ThemeSizes(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range themeSizes {
		if !slices.Contains(names, s.Name) {
			names = append(names, s.Name)
		}
	}

	return names, nil
}

// ThemeSizes implements variantsvc.Host.
func (lib *MediaLibrary) ThemeSizes(ctx context.Context) ([]domain.ThemeSize, error) {
	sizes, err := lib.theme.Sizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("theme sizes: %w", err)
	}

	return sizes, nil
}

// Option implements variantsvc.Host.
func (lib *MediaLibrary) Option(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := lib.options.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get option %s: %w", key, err)
	}

	return value, ok, nil
}

// GenerateMetadata implements MediaService.GenerateMetadata.
//
// The base metadata carries the stored dimensions and the attached file
// without any size variants; the AttachmentMetadataGenerated callbacks add
// them. The result replaces the stored metadata.
func (lib *MediaLibrary) GenerateMetadata(
	ctx context.Context,
	id domain.AttachmentID,
) (meta domain.AttachmentMetadata, err error) {
	log := lib.log.With(logging.Group("attachment", "id", id))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "metadata generation failed", "error", err)
		} else {
			log.DebugContext(ctx, "metadata generated", "sizes", len(meta.Sizes))
		}
	}()

	a, err := lib.mustAttachment(ctx, id)
	if err != nil {
		return domain.AttachmentMetadata{}, err
	}

	base := domain.AttachmentMetadata{
		Width:     a.Metadata.Width,
		Height:    a.Metadata.Height,
		File:      a.File,
		ImageMeta: a.Metadata.ImageMeta,
	}

	meta = lib.hooks.ApplyAttachmentMetadataGenerated(ctx, base.Clone(), id)

	if err := lib.attachments.UpdateMetadata(ctx, id, meta); err != nil {
		return domain.AttachmentMetadata{}, fmt.Errorf("update metadata: %w", err)
	}

	return meta, nil
}

// ImageAttributes implements MediaService.ImageAttributes.
//
// For a named size with a stored variant the src carries the variant's query
// and the variant's dimensions; otherwise the original URL and dimensions
// are used, or the explicit dimensions of the request.
func (lib *MediaLibrary) ImageAttributes(
	ctx context.Context,
	id domain.AttachmentID,
	size domain.SizeRequest,
) (domain.ImageAttributes, error) {
	a, err := lib.mustAttachment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.IsImage() {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, id)
	}

	src, err := lib.AttachmentURL(ctx, id)
	if err != nil {
		return nil, err
	}

	dims := a.Dimensions()

	switch variant, ok := a.Metadata.Sizes[size.Name]; {
	case size.IsExplicit():
		dims = domain.Dimensions{Width: size.Width, Height: size.Height}
	case ok:
		if _, query, found := strings.Cut(variant.File, "?"); found {
			src = domain.AddQueryArgs(src, domain.ParseQuery(query))
		}

		dims = domain.Dimensions{Width: variant.Width, Height: variant.Height}
	}

	sizeClass := size.String()
	attrs := domain.ImageAttributes{
		"src":   src,
		"class": "attachment-" + sizeClass + " size-" + sizeClass,
		"alt":   a.Title,
	}

	if dims.Width > 0 {
		attrs["width"] = strconv.Itoa(dims.Width)
	}

	if dims.Height > 0 {
		attrs["height"] = strconv.Itoa(dims.Height)
	}

	if lib.cfg.Loading != "" {
		attrs["loading"] = lib.cfg.Loading
	}

	return lib.hooks.ApplyAttachmentImageAttributes(ctx, attrs, a, size), nil
}

// ImageTag implements MediaService.ImageTag. Attributes missing from the
// AllowedHTML allow-list are dropped.
func (lib *MediaLibrary) ImageTag(
	ctx context.Context,
	id domain.AttachmentID,
	size domain.SizeRequest,
) (string, error) {
	attrs, err := lib.ImageAttributes(ctx, id, size)
	if err != nil {
		return "", err
	}

	return RenderImageTag(attrs, lib.AllowedHTML(ctx))
}

// RenderImageTag renders an <img> element with the attributes allowed on img.
func RenderImageTag(attrs domain.ImageAttributes, allowed domain.AllowedHTML) (string, error) {
	//nolint:exhaustruct
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     atom.Img.String(),
	}

	for _, key := range attrs.Keys() {
		if allowed.Allows(node.Data, key) {
			node.Attr = append(node.Attr, html.Attribute{Key: key, Val: attrs[key]})
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("render img: %w", err)
	}

	return buf.String(), nil
}

// AllowedHTML implements MediaService.AllowedHTML.
func (lib *MediaLibrary) AllowedHTML(ctx context.Context) domain.AllowedHTML {
	return lib.hooks.ApplyAllowedHTML(ctx, domain.DefaultAllowedHTML())
}

// NativeSizes implements MediaService.NativeSizes.
func (lib *MediaLibrary) NativeSizes(ctx context.Context) ([]string, error) {
	names, err := lib.IntermediateSizes(ctx)
	if err != nil {
		return nil, err
	}

	return lib.hooks.ApplyIntermediateSizesAdvanced(ctx, names), nil
}
