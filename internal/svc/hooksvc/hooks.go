package hooksvc

import (
	"context"
	"slices"
	"sync"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

// Event names a host lifecycle event callbacks can subscribe to.
type Event string

const (
	// AttachmentMetadataGenerated fires after the host computed the metadata
	// of a new or regenerated attachment.
	AttachmentMetadataGenerated Event = "attachment_metadata_generated"

	// AttachmentImageAttributes fires when the host renders an <img> tag.
	AttachmentImageAttributes Event = "attachment_image_attributes"

	// AllowedHTML fires when the sanitizer builds its allow-list.
	AllowedHTML Event = "allowed_html"

	// AttachmentURL fires whenever the URL of an attachment is resolved.
	AttachmentURL Event = "attachment_url"

	// IntermediateSizesAdvanced fires before the host renders physical
	// thumbnail files for the returned size names.
	IntermediateSizesAdvanced Event = "intermediate_sizes_advanced"
)

// DefaultPriority is the priority most callbacks register with.
const DefaultPriority = 10

// Filter callbacks. Each receives the current value and returns the value
// passed on to the next callback.
type (
	MetadataFilter func(
		ctx context.Context,
		meta domain.AttachmentMetadata,
		id domain.AttachmentID,
	) domain.AttachmentMetadata

	AttributesFilter func(
		ctx context.Context,
		attrs domain.ImageAttributes,
		attachment domain.Attachment,
		size domain.SizeRequest,
	) domain.ImageAttributes

	AllowedHTMLFilter func(ctx context.Context, allowed domain.AllowedHTML) domain.AllowedHTML

	URLFilter func(ctx context.Context, url string, id domain.AttachmentID) string

	SizesFilter func(ctx context.Context, sizes []string) []string
)

type registration[F any] struct {
	priority int
	seq      int
	fn       F
}

// Hooks is the registry of typed callbacks per event. Callbacks run by
// ascending priority and, within a priority, in registration order.
// Hooks is safe for concurrent use.
type Hooks struct {
	mu  sync.RWMutex
	seq int

	metadata    []registration[MetadataFilter]
	attributes  []registration[AttributesFilter]
	allowedHTML []registration[AllowedHTMLFilter]
	url         []registration[URLFilter]
	sizes       []registration[SizesFilter]
}

// New returns an empty registry.
func New() *Hooks {
	return &Hooks{}
}

func add[F any](h *Hooks, list *[]registration[F], priority int, fn F) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++

	*list = append(*list, registration[F]{priority: priority, seq: h.seq, fn: fn})

	slices.SortStableFunc(*list, func(a, b registration[F]) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}

		return a.seq - b.seq
	})
}

func snapshot[F any](h *Hooks, list *[]registration[F]) []F {
	h.mu.RLock()
	defer h.mu.RUnlock()

	fns := make([]F, 0, len(*list))
	for _, r := range *list {
		fns = append(fns, r.fn)
	}

	return fns
}

// OnAttachmentMetadataGenerated subscribes fn to AttachmentMetadataGenerated.
func (h *Hooks) OnAttachmentMetadataGenerated(priority int, fn MetadataFilter) {
	add(h, &h.metadata, priority, fn)
}

// OnAttachmentImageAttributes subscribes fn to AttachmentImageAttributes.
func (h *Hooks) OnAttachmentImageAttributes(priority int, fn AttributesFilter) {
	add(h, &h.attributes, priority, fn)
}

// OnAllowedHTML subscribes fn to AllowedHTML.
func (h *Hooks) OnAllowedHTML(priority int, fn AllowedHTMLFilter) {
	add(h, &h.allowedHTML, priority, fn)
}

// OnAttachmentURL subscribes fn to AttachmentURL.
func (h *Hooks) OnAttachmentURL(priority int, fn URLFilter) {
	add(h, &h.url, priority, fn)
}

// OnIntermediateSizesAdvanced subscribes fn to IntermediateSizesAdvanced.
func (h *Hooks) OnIntermediateSizesAdvanced(priority int, fn SizesFilter) {
	add(h, &h.sizes, priority, fn)
}

// ApplyAttachmentMetadataGenerated runs the AttachmentMetadataGenerated callbacks.
func (h *Hooks) ApplyAttachmentMetadataGenerated(
	ctx context.Context,
	meta domain.AttachmentMetadata,
	id domain.AttachmentID,
) domain.AttachmentMetadata {
	for _, fn := range snapshot(h, &h.metadata) {
		meta = fn(ctx, meta, id)
	}

	return meta
}

// ApplyAttachmentImageAttributes runs the AttachmentImageAttributes callbacks.
func (h *Hooks) ApplyAttachmentImageAttributes(
	ctx context.Context,
	attrs domain.ImageAttributes,
	attachment domain.Attachment,
	size domain.SizeRequest,
) domain.ImageAttributes {
	for _, fn := range snapshot(h, &h.attributes) {
		attrs = fn(ctx, attrs, attachment, size)
	}

	return attrs
}

// ApplyAllowedHTML runs the AllowedHTML callbacks.
func (h *Hooks) ApplyAllowedHTML(ctx context.Context, allowed domain.AllowedHTML) domain.AllowedHTML {
	for _, fn := range snapshot(h, &h.allowedHTML) {
		allowed = fn(ctx, allowed)
	}

	return allowed
}

// ApplyAttachmentURL runs the AttachmentURL callbacks.
func (h *Hooks) ApplyAttachmentURL(ctx context.Context, url string, id domain.AttachmentID) string {
	for _, fn := range snapshot(h, &h.url) {
		url = fn(ctx, url, id)
	}

	return url
}

// ApplyIntermediateSizesAdvanced runs the IntermediateSizesAdvanced callbacks.
func (h *Hooks) ApplyIntermediateSizesAdvanced(ctx context.Context, sizes []string) []string {
	for _, fn := range snapshot(h, &h.sizes) {
		sizes = fn(ctx, sizes)
	}

	return sizes
}

// Count returns the number of callbacks subscribed to event.
func (h *Hooks) Count(event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch event {
	case AttachmentMetadataGenerated:
		return len(h.metadata)
	case AttachmentImageAttributes:
		return len(h.attributes)
	case AllowedHTML:
		return len(h.allowedHTML)
	case AttachmentURL:
		return len(h.url)
	case IntermediateSizesAdvanced:
		return len(h.sizes)
	default:
		return 0
	}
}
