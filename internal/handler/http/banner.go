package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salamchy/furniture/internal/service"
	apperrors "github.com/salamchy/furniture/pkg/errors"
	"github.com/salamchy/furniture/pkg/httputil"
)

// BannerHandler handles HTTP requests for the homepage carousel.
type BannerHandler struct {
	service *service.BannerService
	logger  *slog.Logger
}

// NewBannerHandler creates a new banner HTTP handler.
func NewBannerHandler(svc *service.BannerService, logger *slog.Logger) *BannerHandler {
	return &BannerHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/banners. Only active banners are returned
// unless ?all=true is passed.
func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	banners, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: banners})
}

// Create handles POST /api/v1/banners (multipart)
func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}

	input := service.CreateBannerInput{Title: r.FormValue("title")}

	image, err := imageFromForm(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	input.Image = image

	banner, err := h.service.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: banner})
}

// Delete handles DELETE /api/v1/banners/{id}
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "banner deleted"})
}
