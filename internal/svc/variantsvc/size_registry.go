package variantsvc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

// Suffixes of the option keys holding sizes not declared by the theme.
const (
	widthOptionSuffix  = "_size_w"
	heightOptionSuffix = "_size_h"
	cropOptionSuffix   = "_crop"
)

// Sizes implements VariantService.Sizes.
//
// Every intermediate size becomes a preset. Each of width, height and crop is
// taken from the theme declaration when the theme declares that field, and
// from the stored options otherwise. Missing or unparseable values resolve to
// unset.
func (d *Deriver) Sizes(ctx context.Context) (reg domain.SizeRegistry, err error) {
	defer func() {
		if err != nil {
			d.log.ErrorContext(ctx, "resolve sizes failed", "error", err)
		}
	}()

	names, err := d.host.IntermediateSizes(ctx)
	if err != nil {
		return domain.SizeRegistry{}, fmt.Errorf("intermediate sizes: %w", err)
	}

	themeSizes, err := d.host.ThemeSizes(ctx)
	if err != nil {
		return domain.SizeRegistry{}, fmt.Errorf("theme sizes: %w", err)
	}

	declared := make(map[string]domain.ThemeSize, len(themeSizes))
	for _, size := range themeSizes {
		declared[size.Name] = size
	}

	presets := make([]domain.SizePreset, 0, len(names))

	for _, name := range names {
		preset, err := d.resolvePreset(ctx, name, declared[name])
		if err != nil {
			return domain.SizeRegistry{}, err
		}

		presets = append(presets, preset)
	}

	d.log.DebugContext(ctx, "sizes resolved", logging.Group("sizes", "count", len(presets)))

	return domain.NewSizeRegistry(presets...), nil
}

func (d *Deriver) resolvePreset(ctx context.Context, name string, theme domain.ThemeSize) (domain.SizePreset, error) {
	preset := domain.SizePreset{Name: name}

	if theme.Width != nil {
		preset.Width = max(*theme.Width, 0)
	} else {
		width, err := d.intOption(ctx, name+widthOptionSuffix)
		if err != nil {
			return domain.SizePreset{}, err
		}

		preset.Width = width
	}

	if theme.Height != nil {
		preset.Height = max(*theme.Height, 0)
	} else {
		height, err := d.intOption(ctx, name+heightOptionSuffix)
		if err != nil {
			return domain.SizePreset{}, err
		}

		preset.Height = height
	}

	if theme.Crop != nil {
		preset.Crop = *theme.Crop
	} else {
		crop, err := d.boolOption(ctx, name+cropOptionSuffix)
		if err != nil {
			return domain.SizePreset{}, err
		}

		preset.Crop = crop
	}

	return preset, nil
}

func (d *Deriver) intOption(ctx context.Context, key string) (int, error) {
	value, ok, err := d.host.Option(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", key, err)
	}

	if !ok {
		return 0, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, nil //nolint:nilerr
	}

	return n, nil
}

func (d *Deriver) boolOption(ctx context.Context, key string) (bool, error) {
	value, ok, err := d.host.Option(ctx, key)
	if err != nil {
		return false, fmt.Errorf("option %q: %w", key, err)
	}

	if !ok {
		return false, nil
	}

	crop, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, nil //nolint:nilerr
	}

	return crop, nil
}
