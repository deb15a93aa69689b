package transformsvc

import (
	"context"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
)

// TransformSettings is the settings surface of the transform plugin.
type TransformSettings interface {
	SetOptions(ctx context.Context, opts domain.TransformOptions)
	Options() domain.TransformOptions
}

// Settings holds the transform plugin options and performs the plugin's base
// URL rewrite onto the CDN.
type Settings struct {
	mu   sync.RWMutex
	opts domain.TransformOptions
	log  logging.Logger
}

var _ TransformSettings = (*Settings)(nil)

// NewSettings creates Settings with the given initial options.
func NewSettings(opts domain.TransformOptions) *Settings {
	return &Settings{
		opts: opts,
		log:  logging.GetLogger("svc.transformsvc.settings"),
	}
}

// SetOptions implements TransformSettings.SetOptions.
func (s *Settings) SetOptions(ctx context.Context, opts domain.TransformOptions) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()

	s.log.InfoContext(ctx, "transform options set", logging.Group("options",
		"cdnLink", opts.CDNLink,
		"autoFormat", opts.AutoFormat,
		"autoEnhance", opts.AutoEnhance,
		"autoCompress", opts.AutoCompress,
	))
}

// Options implements TransformSettings.Options.
func (s *Settings) Options() domain.TransformOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.opts
}

// Subscribe registers the URL rewrite with the host's hooks.
func (s *Settings) Subscribe(hooks *hooksvc.Hooks) {
	hooks.OnAttachmentURL(hooksvc.DefaultPriority, s.RewriteURL)
}

// RewriteURL moves an attachment URL onto the CDN link and adds the auto
// parameter from the auto flags. Without a CDN link the URL is unchanged.
func (s *Settings) RewriteURL(_ context.Context, rawURL string, _ domain.AttachmentID) string {
	return RewriteURL(s.Options(), rawURL)
}

// RewriteURL applies opts to rawURL. See Settings.RewriteURL.
func RewriteURL(opts domain.TransformOptions, rawURL string) string {
	if opts.CDNLink == "" {
		return rawURL
	}

	cdn, err := url.Parse(opts.CDNLink)
	if err != nil || cdn.Host == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Scheme = cdn.Scheme
	u.Host = cdn.Host
	u.Path = path.Join("/", cdn.Path, u.Path)
	u.RawPath = ""

	var auto []string

	if opts.AutoFormat != 0 {
		auto = append(auto, "format")
	}

	if opts.AutoEnhance != 0 {
		auto = append(auto, "enhance")
	}

	if opts.AutoCompress != 0 {
		auto = append(auto, "compress")
	}

	if len(auto) == 0 {
		return u.String()
	}

	return domain.AddQueryArgs(u.String(), domain.Query{{Key: "auto", Value: strings.Join(auto, ",")}})
}
