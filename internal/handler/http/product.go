package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/salamchy/furniture/internal/repository"
	"github.com/salamchy/furniture/internal/service"
	apperrors "github.com/salamchy/furniture/pkg/errors"
	"github.com/salamchy/furniture/pkg/httputil"
	"github.com/salamchy/furniture/pkg/pagination"
	"github.com/salamchy/furniture/pkg/validator"
)

// maxUploadBytes caps multipart request bodies carrying an image.
const maxUploadBytes = 10 << 20

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// imageFromForm extracts the optional "image" multipart file. The caller
// must have parsed the form already.
func imageFromForm(r *http.Request) (*service.ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.InvalidInput("invalid image upload: " + err.Error())
	}
	return &service.ImageUpload{Filename: header.Filename, Content: file}, nil
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := repository.ProductFilter{Page: params.Page, PerPage: params.PerPage}

	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		filter.Category = &category
	}
	if raw := q.Get("min_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid min_price"), h.logger)
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid max_price"), h.logger)
			return
		}
		filter.MaxPrice = &v
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Create handles POST /api/v1/products (multipart)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}

	input := service.CreateProductInput{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}

	if raw := r.FormValue("price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid price"), h.logger)
			return
		}
		input.Price = v
	}
	if raw := r.FormValue("stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid stock"), h.logger)
			return
		}
		input.Stock = v
	}

	image, err := imageFromForm(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	input.Image = image

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Update handles PUT /api/v1/products/{id} (multipart, all fields optional)
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}

	var input service.UpdateProductInput

	if _, ok := r.MultipartForm.Value["name"]; ok {
		v := r.FormValue("name")
		input.Name = &v
	}
	if _, ok := r.MultipartForm.Value["category"]; ok {
		v := r.FormValue("category")
		input.Category = &v
	}
	if _, ok := r.MultipartForm.Value["description"]; ok {
		v := r.FormValue("description")
		input.Description = &v
	}
	if raw := r.FormValue("price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid price"), h.logger)
			return
		}
		input.Price = &v
	}
	if raw := r.FormValue("stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid stock"), h.logger)
			return
		}
		input.Stock = &v
	}

	image, err := imageFromForm(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	input.Image = image

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "product deleted"})
}

// GetProductOfTheWeek handles GET /api/v1/products/product-of-the-week
func (h *ProductHandler) GetProductOfTheWeek(w http.ResponseWriter, r *http.Request) {
	potw, err := h.service.GetProductOfTheWeek(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: potw})
}

// SetProductOfTheWeekRequest selects the highlighted product.
type SetProductOfTheWeekRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// SetProductOfTheWeek handles PUT /api/v1/products/product-of-the-week
func (h *ProductHandler) SetProductOfTheWeek(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SetProductOfTheWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	potw, err := h.service.SetProductOfTheWeek(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: potw})
}
