package hooksvc_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
)

func appendSize(name string) hooksvc.SizesFilter {
	return func(_ context.Context, sizes []string) []string {
		return append(sizes, name)
	}
}

func TestHooks_Order(t *testing.T) {
	t.Parallel()

	hooks := hooksvc.New()
	hooks.OnIntermediateSizesAdvanced(20, appendSize("late"))
	hooks.OnIntermediateSizesAdvanced(hooksvc.DefaultPriority, appendSize("first"))
	hooks.OnIntermediateSizesAdvanced(5, appendSize("early"))
	hooks.OnIntermediateSizesAdvanced(hooksvc.DefaultPriority, appendSize("second"))

	got := hooks.ApplyIntermediateSizesAdvanced(context.Background(), nil)
	want := []string{"early", "first", "second", "late"}

	if !slices.Equal(got, want) {
		t.Errorf("ApplyIntermediateSizesAdvanced() = %v, want %v", got, want)
	}
}

func TestHooks_NoCallbacks(t *testing.T) {
	t.Parallel()

	hooks := hooksvc.New()
	ctx := context.Background()

	if got := hooks.ApplyAttachmentURL(ctx, "https://x.test/a.jpg", 1); got != "https://x.test/a.jpg" {
		t.Errorf("ApplyAttachmentURL() = %q", got)
	}

	meta := domain.AttachmentMetadata{File: "a.jpg"}
	if got := hooks.ApplyAttachmentMetadataGenerated(ctx, meta, 1); got.File != "a.jpg" {
		t.Errorf("ApplyAttachmentMetadataGenerated() = %+v", got)
	}

	if got := hooks.ApplyAllowedHTML(ctx, domain.DefaultAllowedHTML()); !got.Allows("img", "src") {
		t.Errorf("ApplyAllowedHTML() = %v", got)
	}
}

func TestHooks_Count(t *testing.T) {
	t.Parallel()

	hooks := hooksvc.New()
	hooks.OnAllowedHTML(hooksvc.DefaultPriority, func(_ context.Context, a domain.AllowedHTML) domain.AllowedHTML {
		return a
	})
	hooks.OnAttachmentImageAttributes(hooksvc.DefaultPriority, func(
		_ context.Context,
		attrs domain.ImageAttributes,
		_ domain.Attachment,
		_ domain.SizeRequest,
	) domain.ImageAttributes {
		return attrs
	})

	tests := []struct {
		event hooksvc.Event
		want  int
	}{
		{hooksvc.AllowedHTML, 1},
		{hooksvc.AttachmentImageAttributes, 1},
		{hooksvc.AttachmentURL, 0},
		{hooksvc.Event("unknown"), 0},
	}

	for _, tt := range tests {
		if got := hooks.Count(tt.event); got != tt.want {
			t.Errorf("Count(%s) = %d, want %d", tt.event, got, tt.want)
		}
	}
}

func TestHooks_ConcurrentUse(t *testing.T) {
	t.Parallel()

	hooks := hooksvc.New()
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			hooks.OnAttachmentURL(i, func(_ context.Context, url string, _ domain.AttachmentID) string {
				return url
			})
		}()

		go func() {
			defer wg.Done()

			hooks.ApplyAttachmentURL(ctx, "https://x.test/a.jpg", 1)
		}()
	}

	wg.Wait()

	if got := hooks.Count(hooksvc.AttachmentURL); got != 50 {
		t.Errorf("Count() = %d, want 50", got)
	}
}
