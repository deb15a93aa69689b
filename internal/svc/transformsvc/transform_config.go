package transformsvc

// TransformConfig holds the process-wide toggles for the transform plugin.
type TransformConfig struct {
	// Disabled makes the stored transform settings read as empty
	Disabled bool `env:"DISABLED" default:"false"`

	// Override pushes the stored settings onto the transform plugin at startup
	Override bool `env:"OVERRIDE" default:"false"`

	// CDNLink replaces a configured CDN link when Override is set
	CDNLink string `env:"CDN_LINK" default:""`

	// DisableThumbnail stops the host from rendering physical thumbnails
	DisableThumbnail bool `env:"DISABLE_THUMBNAIL" default:"false"`
}
