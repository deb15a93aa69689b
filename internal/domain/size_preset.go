package domain

// SizePreset is a named display size. A zero Width or Height is unset.
type SizePreset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Crop   bool   `json:"crop"`
}

// ThemeSize is a size declared by the active theme. Each field overrides the
// stored option for that field only, so absent fields stay nil.
type ThemeSize struct {
	Name   string `yaml:"name"`
	Width  *int   `yaml:"width"`
	Height *int   `yaml:"height"`
	Crop   *bool  `yaml:"crop"`
}

// SizeRegistry is an ordered set of presets, unique by name.
type SizeRegistry struct {
	presets []SizePreset
	index   map[string]int
}

// NewSizeRegistry builds a registry. A repeated name replaces the earlier
// preset in place.
func NewSizeRegistry(presets ...SizePreset) SizeRegistry {
	reg := SizeRegistry{
		presets: make([]SizePreset, 0, len(presets)),
		index:   make(map[string]int, len(presets)),
	}

	for _, preset := range presets {
		if i, ok := reg.index[preset.Name]; ok {
			reg.presets[i] = preset

			continue
		}

		reg.index[preset.Name] = len(reg.presets)
		reg.presets = append(reg.presets, preset)
	}

	return reg
}

// Lookup returns the preset with the given name.
func (r SizeRegistry) Lookup(name string) (SizePreset, bool) {
	i, ok := r.index[name]
	if !ok {
		return SizePreset{}, false
	}

	return r.presets[i], true
}

// Presets returns the presets in registration order.
func (r SizeRegistry) Presets() []SizePreset {
	return append([]SizePreset(nil), r.presets...)
}

func (r SizeRegistry) Len() int {
	return len(r.presets)
}
