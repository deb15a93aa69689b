package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidSize = errors.New("invalid size")

// SizeRequest is a requested display size: either a preset name or an
// explicit width/height pair.
type SizeRequest struct {
	Name     string
	Width    int
	Height   int
	explicit bool
}

// NamedSize requests the preset with the given name.
func NamedSize(name string) SizeRequest {
	return SizeRequest{Name: name}
}

// ExplicitSize requests explicit dimensions. A zero value is unset.
func ExplicitSize(width, height int) SizeRequest {
	return SizeRequest{Width: width, Height: height, explicit: true}
}

// IsExplicit reports whether the request carries explicit dimensions.
func (r SizeRequest) IsExplicit() bool {
	return r.explicit
}

func (r SizeRequest) String() string {
	if r.explicit {
		return fmt.Sprintf("%dx%d", r.Width, r.Height)
	}

	return r.Name
}

// ParseSizeRequest builds a request from textual input. A non-empty name wins
// over dimensions; empty dimensions are unset.
func ParseSizeRequest(name, width, height string) (SizeRequest, error) {
	if name != "" {
		return NamedSize(name), nil
	}

	w, err := parseDimension(width)
	if err != nil {
		return SizeRequest{}, fmt.Errorf("%w: width: %w", ErrInvalidSize, err)
	}

	h, err := parseDimension(height)
	if err != nil {
		return SizeRequest{}, fmt.Errorf("%w: height: %w", ErrInvalidSize, err)
	}

	return ExplicitSize(w, h), nil
}

func parseDimension(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}

	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}

	return v, nil
}

// SizeParams are the width/height query parameters sent to the transform
// service. A zero value is never emitted.
type SizeParams struct {
	W int `json:"w,omitempty"`
	H int `json:"h,omitempty"`
}

func (p SizeParams) IsEmpty() bool {
	return p.W == 0 && p.H == 0
}

// Scale multiplies both dimensions.
func (p SizeParams) Scale(multiplier int) SizeParams {
	return SizeParams{W: p.W * multiplier, H: p.H * multiplier}
}

// Query returns the parameters as an ordered query, w before h.
func (p SizeParams) Query() Query {
	var q Query

	if p.W != 0 {
		q = q.Set("w", strconv.Itoa(p.W))
	}

	if p.H != 0 {
		q = q.Set("h", strconv.Itoa(p.H))
	}

	return q
}

// Descriptor returns the srcset width descriptor, e.g. "480w".
func (p SizeParams) Descriptor() string {
	return strconv.Itoa(p.W) + "w"
}
