package variantsvc_test

import (
	"context"
	"errors"

	"github.com/mkrupp/imgix-helper/internal/domain"
)

var errHost = errors.New("host unavailable")

type mockHost struct {
	attachments map[domain.AttachmentID]domain.Attachment
	sizes       []string
	theme       []domain.ThemeSize
	options     map[string]string
	err         error
	urlCalls    int
}

func newMockHost() *mockHost {
	return &mockHost{
		attachments: make(map[domain.AttachmentID]domain.Attachment),
		options:     make(map[string]string),
	}
}

func (m *mockHost) Attachment(_ context.Context, id domain.AttachmentID) (domain.Attachment, bool, error) {
	if m.err != nil {
		return domain.Attachment{}, false, m.err
	}

	a, ok := m.attachments[id]

	return a, ok, nil
}

func (m *mockHost) AttachmentURL(_ context.Context, id domain.AttachmentID) (string, error) {
	m.urlCalls++

	if m.err != nil {
		return "", m.err
	}

	return m.attachments[id].URL, nil
}

func (m *mockHost) IntermediateSizes(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}

	return m.sizes, nil
}

func (m *mockHost) ThemeSizes(context.Context) ([]domain.ThemeSize, error) {
	if m.err != nil {
		return nil, m.err
	}

	return m.theme, nil
}

func (m *mockHost) Option(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}

	v, ok := m.options[key]

	return v, ok, nil
}

// withPreset registers an intermediate size backed by stored options.
func (m *mockHost) withPreset(name, width, height, crop string) *mockHost {
	m.sizes = append(m.sizes, name)

	if width != "" {
		m.options[name+"_size_w"] = width
	}

	if height != "" {
		m.options[name+"_size_h"] = height
	}

	if crop != "" {
		m.options[name+"_crop"] = crop
	}

	return m
}

func (m *mockHost) withAttachment(a domain.Attachment) *mockHost {
	m.attachments[a.ID] = a

	return m
}

func ptr[T any](v T) *T {
	return &v
}

func imageAttachment(id domain.AttachmentID, width, height int) domain.Attachment {
	return domain.Attachment{
		ID:       id,
		MIMEType: "image/jpeg",
		File:     "2024/05/img.jpg",
		URL:      "https://x.test/img.jpg",
		Metadata: domain.AttachmentMetadata{Width: width, Height: height, File: "2024/05/img.jpg"},
	}
}
