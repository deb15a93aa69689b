package domain

import "maps"

// AttachmentMetadata is the host-owned metadata of an attachment.
// Sizes maps a size name to its variant descriptor.
type AttachmentMetadata struct {
	Width     int                          `json:"width,omitempty"`
	Height    int                          `json:"height,omitempty"`
	File      string                       `json:"file,omitempty"`
	Sizes     map[string]VariantDescriptor `json:"sizes,omitempty"`
	ImageMeta map[string]any               `json:"image_meta,omitempty"`
}

// Clone returns a copy whose maps can be modified without touching m.
func (m AttachmentMetadata) Clone() AttachmentMetadata {
	m.Sizes = maps.Clone(m.Sizes)
	m.ImageMeta = maps.Clone(m.ImageMeta)

	return m
}

// VariantDescriptor describes one size variant. Descriptors synthesized for
// the transform service have no stored file behind them.
type VariantDescriptor struct {
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Crop     bool   `json:"crop"`
	MIMEType string `json:"mime-type"`
}
