package mediasvc

// MediaConfig holds configuration parameters for the media library.
type MediaConfig struct {
	// IntermediateSizes are the size names registered by the host itself.
	// Sizes declared by the theme are appended.
	IntermediateSizes []string `env:"INTERMEDIATE_SIZES" default:"thumbnail,medium,medium_large,large"`

	// Loading is the loading attribute of rendered images; empty omits it
	Loading string `env:"LOADING" default:"lazy"`
}
