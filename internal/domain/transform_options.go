package domain

// TransformOptions are the settings of the transform plugin collaborator.
type TransformOptions struct {
	CDNLink      string `json:"cdn_link"`
	AutoFormat   int    `json:"auto_format,omitempty"`
	AutoEnhance  int    `json:"auto_enhance,omitempty"`
	AutoCompress int    `json:"auto_compress,omitempty"`
}

// DefaultTransformOptions are used when the stored settings are unreadable.
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		CDNLink:     "",
		AutoFormat:  1,
		AutoEnhance: 1,
	}
}
