package domain

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNoAttachmentID     = errors.New("no attachment id")
	ErrInvalidAttachment  = errors.New("invalid attachment id")
)

// MIMETypeImport is the placeholder MIME type the host assigns to files
// imported without a detected type.
const MIMETypeImport = "import"

//nolint:gochecknoglobals
var imageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"jpe":  true,
	"gif":  true,
	"png":  true,
	"webp": true,
	"avif": true,
	"heic": true,
}

// AttachmentID identifies an attachment in the host media library.
type AttachmentID int64

// ParseAttachmentID parses a decimal attachment id.
func ParseAttachmentID(s string) (AttachmentID, error) {
	if s == "" {
		return 0, ErrNoAttachmentID
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidAttachment
	}

	return AttachmentID(id), nil
}

func (id AttachmentID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Dimensions are the stored pixel dimensions of an original asset.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Attachment is the host's record of an uploaded media file.
type Attachment struct {
	ID       AttachmentID       `json:"id"`
	Title    string             `json:"title"`
	MIMEType string             `json:"mimeType"`
	File     string             `json:"file"` // Attached file path
	URL      string             `json:"url"`  // Unfiltered base URL
	Metadata AttachmentMetadata `json:"metadata"`
}

// IsImage reports whether the host treats the attachment as an image.
// An attachment without a file never is; otherwise the MIME type decides,
// falling back to the file extension for imported files.
func (a Attachment) IsImage() bool {
	if a.File == "" {
		return false
	}

	if strings.HasPrefix(a.MIMEType, "image/") {
		return true
	}

	if a.MIMEType != MIMETypeImport {
		return false
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(a.File), "."))

	return imageExts[ext]
}

// Dimensions returns the original dimensions recorded in the metadata.
func (a Attachment) Dimensions() Dimensions {
	return Dimensions{
		Width:  a.Metadata.Width,
		Height: a.Metadata.Height,
	}
}
