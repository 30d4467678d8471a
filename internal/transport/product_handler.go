package transport

import (
	"errors"
	"net/http"

	"shopdesk/internal/fields"
	"shopdesk/internal/middleware"
	"shopdesk/internal/repository"
	"shopdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadSize caps the in-memory portion of multipart uploads.
const maxUploadSize = 32 << 20

// requiredProductFields are checked in order; the first missing one is
// reported to the client.
var requiredProductFields = []string{
	"product_name",
	"short_description",
	"long_description",
	"brand",
	"category",
	"specifications",
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles product creation from a multipart form with an image
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, field := range requiredProductFields {
		if r.FormValue(field) == "" {
			middleware.RespondWithError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Product image is required")
		return
	}
	defer file.Close()

	category, err := fields.ParseStringList(formValue(r, "category"), "category", true)
	if err == nil && len(category) == 0 {
		err = errors.New("category is empty")
	}
	var tags, features []string
	if err == nil {
		tags, err = fields.ParseStringList(formValue(r, "tags"), "tags", false)
	}
	if err == nil {
		features, err = fields.ParseStringList(formValue(r, "features"), "features", false)
	}
	var specifications map[string]string
	if err == nil {
		specifications, err = fields.ParseStringMap(formValue(r, "specifications"), "specifications", true)
	}
	if err == nil && len(specifications) == 0 {
		err = errors.New("specifications is empty")
	}
	if err != nil {
		h.logger.Debug("Product field validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid data format. Please check your input fields.")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		ProductName:      r.FormValue("product_name"),
		ShortDescription: r.FormValue("short_description"),
		LongDescription:  r.FormValue("long_description"),
		Brand:            r.FormValue("brand"),
		Category:         category,
		Tags:             tags,
		Features:         features,
		Specifications:   specifications,
		Image: service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
			Size:        header.Size,
		},
	})
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to create product. Please try again later.")
		return
	}

	h.logger.Info("Product created successfully", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message":    "Product created successfully",
		"product_id": product.ID.String(),
	})
}

// List handles fetching all products, newest first
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("Failed to fetch product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Update handles partial product updates; the image is replaced only when
// a new file is part of the form.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateProductInput{
		ProductName:      formValuePtr(r, "product_name"),
		ShortDescription: formValuePtr(r, "short_description"),
		LongDescription:  formValuePtr(r, "long_description"),
		Brand:            formValuePtr(r, "brand"),
	}

	var parseErr error
	if raw := formValue(r, "category"); raw != nil {
		input.Category, parseErr = fields.ParseStringList(raw, "category", false)
	}
	if parseErr == nil {
		if raw := formValue(r, "tags"); raw != nil {
			input.Tags, parseErr = fields.ParseStringList(raw, "tags", false)
		}
	}
	if parseErr == nil {
		if raw := formValue(r, "features"); raw != nil {
			input.Features, parseErr = fields.ParseStringList(raw, "features", false)
		}
	}
	if parseErr == nil {
		if raw := formValue(r, "specifications"); raw != nil {
			input.Specifications, parseErr = fields.ParseStringMap(raw, "specifications", false)
		}
	}
	if parseErr != nil {
		h.logger.Debug("Product field validation failed", zap.Error(parseErr))
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid data format. Please check your input fields.")
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		input.Image = &service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
			Size:        header.Size,
		}
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("Product update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to update product. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("Product deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Product deleted successfully"})
}

// formValue returns the first value for a multipart field, or nil when
// the field was not part of the form at all.
func formValue(r *http.Request, name string) any {
	if r.MultipartForm == nil {
		return nil
	}
	if values, ok := r.MultipartForm.Value[name]; ok && len(values) > 0 {
		return values[0]
	}
	return nil
}

func formValuePtr(r *http.Request, name string) *string {
	value := formValue(r, name)
	if value == nil {
		return nil
	}
	s := value.(string)
	return &s
}
