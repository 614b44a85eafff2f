package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/almonsour13/mango-lens/internal/middleware"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/service"
	"github.com/almonsour13/mango-lens/internal/util"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

const defaultThumbnailSize = 256

type ImageHandler struct {
	service *service.ImageService
}

func NewImageHandler(service *service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	images, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, images, &model.Meta{Total: len(images)})
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	imageID := chi.URLParam(r, "imageID")
	details, err := h.service.Get(r.Context(), claims.UserID, imageID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, details, nil)
}

// Raw streams the original image bytes with the stored content type.
func (h *ImageHandler) Raw(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	imageID := chi.URLParam(r, "imageID")
	details, err := h.service.Get(r.Context(), claims.UserID, imageID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", details.Image.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(details.Image.ImageData)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(details.Image.ImageData)
}

// Analyzed streams the annotated copy produced by the analysis pipeline.
func (h *ImageHandler) Analyzed(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	imageID := chi.URLParam(r, "imageID")
	data, mimeType, err := h.service.GetAnalyzed(r.Context(), claims.UserID, imageID)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("encoding") == "dataurl" {
		writeSuccess(w, http.StatusOK, map[string]string{
			"analyzedImage": util.EncodeDataURL(data, mimeType),
		}, nil)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ImageHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	size := defaultThumbnailSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 16 || parsed > 1024 {
			writeError(w, apierror.BadRequest("size must be between 16 and 1024", "size"))
			return
		}
		size = parsed
	}

	imageID := chi.URLParam(r, "imageID")
	data, err := h.service.Thumbnail(r.Context(), claims.UserID, imageID, size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
