package domain

import (
	"maps"
	"slices"
)

// ImageAttributes are the attributes of a rendered <img> tag.
type ImageAttributes map[string]string

//nolint:gochecknoglobals
var imageAttributeOrder = []string{"src", "width", "height", "srcset", "sizes", "class", "alt", "loading"}

// Clone returns a copy that can be modified without touching a.
func (a ImageAttributes) Clone() ImageAttributes {
	if a == nil {
		return ImageAttributes{}
	}

	return maps.Clone(a)
}

// Keys returns the attribute names in render order: well-known attributes
// first, the rest sorted by name.
func (a ImageAttributes) Keys() []string {
	keys := make([]string, 0, len(a))

	for _, k := range imageAttributeOrder {
		if _, ok := a[k]; ok {
			keys = append(keys, k)
		}
	}

	var rest []string

	for k := range a {
		if !slices.Contains(imageAttributeOrder, k) {
			rest = append(rest, k)
		}
	}

	slices.Sort(rest)

	return append(keys, rest...)
}

// AllowedHTML is a sanitizer allow-list: tag name to allowed attribute names.
type AllowedHTML map[string]map[string]bool

// DefaultAllowedHTML returns the host's allow-list for post content images.
// srcset and sizes are not part of it.
func DefaultAllowedHTML() AllowedHTML {
	return AllowedHTML{
		"img": {
			"alt":      true,
			"align":    true,
			"border":   true,
			"class":    true,
			"height":   true,
			"hspace":   true,
			"loading":  true,
			"longdesc": true,
			"vspace":   true,
			"src":      true,
			"usemap":   true,
			"width":    true,
		},
	}
}

// Clone returns a deep copy of the allow-list.
func (a AllowedHTML) Clone() AllowedHTML {
	out := make(AllowedHTML, len(a))

	for tag, attrs := range a {
		out[tag] = maps.Clone(attrs)
	}

	return out
}

// Allows reports whether attr is allowed on tag.
func (a AllowedHTML) Allows(tag, attr string) bool {
	return a[tag][attr]
}
