package domain_test

import (
	"slices"
	"testing"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

func TestSizeRegistry(t *testing.T) {
	t.Parallel()

	reg := domain.NewSizeRegistry(
		domain.SizePreset{Name: "thumbnail", Width: 150, Height: 150, Crop: true},
		domain.SizePreset{Name: "medium", Width: 300, Height: 300},
		domain.SizePreset{Name: "thumbnail", Width: 100, Height: 100, Crop: true},
	)

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	names := make([]string, 0, reg.Len())
	for _, p := range reg.Presets() {
		names = append(names, p.Name)
	}

	if want := []string{"thumbnail", "medium"}; !slices.Equal(names, want) {
		t.Errorf("Presets() names = %v, want %v", names, want)
	}

	got, ok := reg.Lookup("thumbnail")
	if !ok || got.Width != 100 {
		t.Errorf("Lookup(thumbnail) = %+v, %v, want width 100", got, ok)
	}

	if _, ok := reg.Lookup("huge"); ok {
		t.Error("Lookup(huge) found a preset")
	}
}
