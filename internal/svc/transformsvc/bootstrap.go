package transformsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/repo/option"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
)

// SettingsOption is the option key of the transform plugin settings.
const SettingsOption = "imgix_settings"

// disabledSettings is what the settings option reads as when disabled.
const disabledSettings = "{}"

// Subscriber registers callbacks with the host's hooks.
type Subscriber interface {
	Subscribe(hooks *hooksvc.Hooks)
}

// WrapOptions returns the option repository the rest of the process should
// read from. With Disabled set the settings option reads as empty.
func WrapOptions(cfg TransformConfig, repo option.Repository) option.Repository {
	if !cfg.Disabled {
		return repo
	}

	return option.NewOverridingRepository(repo, map[string]string{
		SettingsOption: disabledSettings,
	})
}

// LoadOptions reads the transform settings option.
//
// A missing option or a JSON list yields empty options. A value that is
// neither a JSON object nor a list yields DefaultTransformOptions. Fields of
// unexpected type are ignored.
func LoadOptions(ctx context.Context, repo option.Repository) (domain.TransformOptions, error) {
	value, ok, err := repo.Get(ctx, SettingsOption)
	if err != nil {
		return domain.TransformOptions{}, fmt.Errorf("get %s: %w", SettingsOption, err)
	}

	if !ok {
		return domain.TransformOptions{}, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return domain.DefaultTransformOptions(), nil //nolint:nilerr
	}

	var fields map[string]any

	switch v := decoded.(type) {
	case map[string]any:
		fields = v
	case []any:
		return domain.TransformOptions{}, nil
	default:
		return domain.DefaultTransformOptions(), nil
	}

	var opts domain.TransformOptions

	if link, ok := fields["cdn_link"].(string); ok {
		opts.CDNLink = link
	}

	opts.AutoFormat = flag(fields["auto_format"])
	opts.AutoEnhance = flag(fields["auto_enhance"])
	opts.AutoCompress = flag(fields["auto_compress"])

	return opts, nil
}

func flag(v any) int {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return 0
}

// Bootstrap applies the toggles of cfg and subscribes the variant callbacks.
//
// Without transform plugin (settings is nil) nothing is subscribed. With
// Override the stored settings are pushed onto the plugin, with CDNLink
// replacing a non-empty CDN link. With DisableThumbnail the host is told to
// render no physical thumbnails.
func Bootstrap(
	ctx context.Context,
	cfg TransformConfig,
	options option.Repository,
	settings TransformSettings,
	hooks *hooksvc.Hooks,
	variants Subscriber,
) error {
	log := logging.GetLogger("svc.transformsvc.bootstrap")

	if settings == nil {
		log.WarnContext(ctx, "transform plugin not available, variant hooks not registered")

		return nil
	}

	if cfg.Override {
		opts, err := LoadOptions(ctx, options)
		if err != nil {
			return fmt.Errorf("load transform options: %w", err)
		}

		if opts.CDNLink != "" && cfg.CDNLink != "" {
			opts.CDNLink = cfg.CDNLink
		}

		settings.SetOptions(ctx, opts)
	}

	if cfg.DisableThumbnail {
		hooks.OnIntermediateSizesAdvanced(hooksvc.DefaultPriority, func(context.Context, []string) []string {
			return []string{}
		})
	}

	variants.Subscribe(hooks)

	log.DebugContext(ctx, "bootstrapped", logging.Group("config",
		"disabled", cfg.Disabled,
		"override", cfg.Override,
		"disableThumbnail", cfg.DisableThumbnail,
	))

	return nil
}
