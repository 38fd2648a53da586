package receiptscan

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tripsplit/tripsplit/internal/platform/httpx"
)

// maxUploadBytes bounds receipt uploads; phone photos stay well under this.
const maxUploadBytes = 10 << 20

// Scanner extracts receipt data from an image.
type Scanner interface {
	Scan(ctx context.Context, image []byte, mediaType string) (Result, error)
}

// Handler serves receipt parsing endpoints.
type Handler struct {
	logger    *slog.Logger
	scanner   Scanner
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, scanner Scanner) *Handler {
	return &Handler{logger: logger, scanner: scanner, validator: validator.New()}
}

// MountRoutes registers receipt scanning routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/parse", h.parse)
	r.Post("/parse/upload", h.parseUpload)
	r.Post("/parse/base64", h.parseBase64)
}

type base64Request struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	MediaType   string `json:"media_type"`
}

// parse accepts either a multipart file upload or a JSON body with a base64
// image, dispatching on content type.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		h.parseUpload(w, r)
	case strings.HasPrefix(contentType, "application/json"):
		h.parseBase64(w, r)
	default:
		httpx.Problem(w, http.StatusBadRequest, "Unsupported Content Type", "provide a multipart file upload or a JSON body with base64 image data")
	}
}

func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "could not read multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing File", "a file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "could not read uploaded file")
		return
	}
	mediaType := header.Header.Get("Content-Type")
	h.scan(w, r, image, mediaType)
}

func (h *Handler) parseBase64(w http.ResponseWriter, r *http.Request) {
	var req base64Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Image", "image_base64 must be valid base64")
		return
	}
	h.scan(w, r, image, req.MediaType)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request, image []byte, mediaType string) {
	result, err := h.scanner.Scan(r.Context(), image, mediaType)
	if err != nil {
		h.logger.Error("scan receipt", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
