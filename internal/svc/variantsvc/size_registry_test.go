package variantsvc_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/svc/variantsvc"
)

func TestDeriver_Sizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*mockHost)
		want  []domain.SizePreset
	}{
		{
			name: "reads stored options",
			setup: func(h *mockHost) {
				h.withPreset("thumbnail", "150", "150", "1").withPreset("medium", "300", "300", "0")
			},
			want: []domain.SizePreset{
				{Name: "thumbnail", Width: 150, Height: 150, Crop: true},
				{Name: "medium", Width: 300, Height: 300},
			},
		},
		{
			name: "missing and invalid options resolve to unset",
			setup: func(h *mockHost) {
				h.withPreset("medium_large", "768", "", "").withPreset("broken", "wide", "-5", "maybe")
			},
			want: []domain.SizePreset{
				{Name: "medium_large", Width: 768},
				{Name: "broken"},
			},
		},
		{
			name: "theme overrides per field",
			setup: func(h *mockHost) {
				h.withPreset("post-thumbnail", "100", "100", "0")
				h.theme = []domain.ThemeSize{
					{Name: "post-thumbnail", Width: ptr(1200), Crop: ptr(true)},
				}
			},
			want: []domain.SizePreset{
				{Name: "post-thumbnail", Width: 1200, Height: 100, Crop: true},
			},
		},
		{
			name: "theme may unset a stored value",
			setup: func(h *mockHost) {
				h.withPreset("hero", "800", "600", "1")
				h.theme = []domain.ThemeSize{{Name: "hero", Width: ptr(0), Crop: ptr(false)}}
			},
			want: []domain.SizePreset{
				{Name: "hero", Height: 600},
			},
		},
		{
			name: "duplicate names collapse",
			setup: func(h *mockHost) {
				h.withPreset("large", "1024", "1024", "").withPreset("large", "1024", "1024", "")
			},
			want: []domain.SizePreset{
				{Name: "large", Width: 1024, Height: 1024},
			},
		},
		{
			name:  "no sizes",
			setup: func(*mockHost) {},
			want:  []domain.SizePreset{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host := newMockHost()
			tt.setup(host)

			reg, err := variantsvc.NewDeriver(host).Sizes(context.Background())
			if err != nil {
				t.Fatalf("Sizes() error = %v", err)
			}

			if got := reg.Presets(); !slices.Equal(got, tt.want) {
				t.Errorf("Sizes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDeriver_SizesHostError(t *testing.T) {
	t.Parallel()

	host := newMockHost()
	host.err = errHost

	if _, err := variantsvc.NewDeriver(host).Sizes(context.Background()); !errors.Is(err, errHost) {
		t.Errorf("Sizes() error = %v, want %v", err, errHost)
	}
}
