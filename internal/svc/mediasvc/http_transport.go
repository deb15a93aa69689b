package mediasvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/imgix-helper/internal/domain"
	context_ "github.com/mkrupp/imgix-helper/internal/infra/context"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	http_ "github.com/mkrupp/imgix-helper/internal/infra/transport/http"
	"github.com/mkrupp/imgix-helper/internal/svc/variantsvc"
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// URLAttachmentIDParam is the path parameter holding the attachment ID.
	// Default is "attachment_id".
	URLAttachmentIDParam string `env:"URL_ATTACHMENT_ID_PARAM" default:"attachment_id"`

	// URLSizeParam is the query parameter naming a size preset.
	// Default is "size".
	URLSizeParam string `env:"URL_SIZE_PARAM" default:"size"`

	// URLWidthParam and URLHeightParam request explicit dimensions when no
	// size name is given.
	URLWidthParam  string `env:"URL_WIDTH_PARAM" default:"width"`
	URLHeightParam string `env:"URL_HEIGHT_PARAM" default:"height"`

	// MaxBodySize limits request bodies in bytes. Default is 1MB.
	MaxBodySize int64 `env:"MAX_BODY_SIZE" default:"1048576"`
}

// HTTPTransport exposes the media library and the resolved sizes over HTTP.
type HTTPTransport struct {
	mediaSvc MediaService
	variants variantsvc.VariantService
	mux      *http.ServeMux
	log      logging.Logger
	cfg      HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport serving these routes:
//   - PUT  /attachments/{id}: store an attachment
//   - POST /attachments/{id}/metadata: regenerate metadata
//   - GET  /attachments/{id}/attributes: <img> attributes as JSON
//   - GET  /attachments/{id}/img: sanitized <img> tag
//   - GET  /attachments/{id}/url: filtered attachment URL
//   - GET  /sizes: resolved size presets
//   - GET  /sizes/native: sizes still rendered as files
func NewHTTPTransport(
	mediaSvc MediaService,
	variants variantsvc.VariantService,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	ht := &HTTPTransport{
		mediaSvc: mediaSvc,
		variants: variants,
		mux:      http.NewServeMux(),
		log:      logging.GetLogger("svc.mediasvc.http_transport"),
		cfg:      cfg,
	}

	attachmentPath := fmt.Sprintf("/attachments/{%s}", cfg.URLAttachmentIDParam)

	ht.mux.HandleFunc("PUT "+attachmentPath, ht.HandleStore)
	ht.mux.HandleFunc("POST "+attachmentPath+"/metadata", ht.HandleGenerateMetadata)
	ht.mux.HandleFunc("GET "+attachmentPath+"/attributes", ht.HandleAttributes)
	ht.mux.HandleFunc("GET "+attachmentPath+"/img", ht.HandleImageTag)
	ht.mux.HandleFunc("GET "+attachmentPath+"/url", ht.HandleURL)
	ht.mux.HandleFunc("GET /sizes", ht.HandleSizes)
	ht.mux.HandleFunc("GET /sizes/native", ht.HandleNativeSizes)

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

// HandleStore stores the attachment in the JSON request body under the ID
// from the path.
func (ht *HTTPTransport) HandleStore(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleStore(w, r)
}

func (ht *HTTPTransport) handleStore(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "attachment store failed", "error", err)
		} else {
			log.DebugContext(ctx, "attachment stored")
		}
	}(r.Context())

	id, r, err := ht.attachmentID(w, r)
	if err != nil {
		return err
	}

	var a domain.Attachment

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, ht.cfg.MaxBodySize)).Decode(&a); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode attachment: %w", err)
	}

	a.ID = id

	if err := ht.mediaSvc.Store(r.Context(), a); err != nil {
		writeError(w, err)

		return fmt.Errorf("store: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// HandleGenerateMetadata regenerates the metadata of an attachment and
// responds with the result.
func (ht *HTTPTransport) HandleGenerateMetadata(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGenerateMetadata(w, r)
}

func (ht *HTTPTransport) handleGenerateMetadata(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "metadata generation failed", "error", err)
		} else {
			log.DebugContext(ctx, "metadata generated")
		}
	}(r.Context())

	id, r, err := ht.attachmentID(w, r)
	if err != nil {
		return err
	}

	meta, err := ht.mediaSvc.GenerateMetadata(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("generate metadata: %w", err)
	}

	return writeJSON(w, meta)
}

// HandleAttributes responds with the <img> attributes of an image in the
// requested size.
func (ht *HTTPTransport) HandleAttributes(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleAttributes(w, r)
}

func (ht *HTTPTransport) handleAttributes(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "attributes failed", "error", err)
		} else {
			log.DebugContext(ctx, "attributes served")
		}
	}(r.Context())

	id, r, err := ht.attachmentID(w, r)
	if err != nil {
		return err
	}

	size, err := ht.sizeRequest(w, r)
	if err != nil {
		return err
	}

	attrs, err := ht.mediaSvc.ImageAttributes(r.Context(), id, size)
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("image attributes: %w", err)
	}

	return writeJSON(w, attrs)
}

// HandleImageTag responds with the sanitized <img> tag of an image in the
// requested size.
func (ht *HTTPTransport) HandleImageTag(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleImageTag(w, r)
}

func (ht *HTTPTransport) handleImageTag(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "image tag failed", "error", err)
		} else {
			log.DebugContext(ctx, "image tag served")
		}
	}(r.Context())

	id, r, err := ht.attachmentID(w, r)
	if err != nil {
		return err
	}

	size, err := ht.sizeRequest(w, r)
	if err != nil {
		return err
	}

	tag, err := ht.mediaSvc.ImageTag(r.Context(), id, size)
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("image tag: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write([]byte(tag)); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// URLResponse is the body of the attachment URL endpoint.
type URLResponse struct {
	URL string `json:"url"`
}

// HandleURL responds with the filtered URL of an attachment.
func (ht *HTTPTransport) HandleURL(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleURL(w, r)
}

func (ht *HTTPTransport) handleURL(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "attachment url failed", "error", err)
		} else {
			log.DebugContext(ctx, "attachment url served")
		}
	}(r.Context())

	id, r, err := ht.attachmentID(w, r)
	if err != nil {
		return err
	}

	u, err := ht.mediaSvc.AttachmentURL(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("attachment url: %w", err)
	}

	return writeJSON(w, URLResponse{URL: u})
}

// HandleSizes responds with the resolved size presets in registration order.
func (ht *HTTPTransport) HandleSizes(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleSizes(w, r)
}

func (ht *HTTPTransport) handleSizes(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "sizes failed", "error", err)
		}
	}(r.Context())

	reg, err := ht.variants.Sizes(r.Context())
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("sizes: %w", err)
	}

	return writeJSON(w, reg.Presets())
}

// HandleNativeSizes responds with the size names the host still renders as
// files.
func (ht *HTTPTransport) HandleNativeSizes(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleNativeSizes(w, r)
}

func (ht *HTTPTransport) handleNativeSizes(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "native sizes failed", "error", err)
		}
	}(r.Context())

	names, err := ht.mediaSvc.NativeSizes(r.Context())
	if err != nil {
		writeError(w, err)

		return fmt.Errorf("native sizes: %w", err)
	}

	if names == nil {
		names = []string{}
	}

	return writeJSON(w, names)
}

// attachmentID parses the attachment ID path parameter and returns the
// request with the ID in its context. On error a 400 has been written.
func (ht *HTTPTransport) attachmentID(
	w http.ResponseWriter,
	r *http.Request,
) (domain.AttachmentID, *http.Request, error) {
	id, err := domain.ParseAttachmentID(r.PathValue(ht.cfg.URLAttachmentIDParam))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return 0, r, err
	}

	return id, r.WithContext(context_.WithAttachmentID(r.Context(), id.String())), nil
}

// sizeRequest parses the size query parameters. On error a 400 has been
// written.
func (ht *HTTPTransport) sizeRequest(w http.ResponseWriter, r *http.Request) (domain.SizeRequest, error) {
	query := r.URL.Query()

	size, err := domain.ParseSizeRequest(
		query.Get(ht.cfg.URLSizeParam),
		query.Get(ht.cfg.URLWidthParam),
		query.Get(ht.cfg.URLHeightParam),
	)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return domain.SizeRequest{}, fmt.Errorf("parse size: %w", err)
	}

	return size, nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrAttachmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAttachment),
		errors.Is(err, domain.ErrNoAttachmentID),
		errors.Is(err, domain.ErrInvalidSize):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotAnImage):
		status = http.StatusUnprocessableEntity
	}

	http.Error(w, http.StatusText(status), status)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
