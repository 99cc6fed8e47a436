package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// ProductHandler handles the /api/products routes
type ProductHandler struct {
	productService ProductServiceInterface
	maxUploadSize  int64
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductServiceInterface, maxUploadSize int64) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSize
	}
	return &ProductHandler{
		productService: productService,
		maxUploadSize:  maxUploadSize,
	}
}

// CreateProduct creates a product from a multipart form or a JSON body
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	in, upload, cleanup, err := h.parseProductRequest(w, r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	defer cleanup()

	product, err := h.productService.Create(r.Context(), userID, in, upload)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, product)
}

// ListProducts returns the products of the authenticated user, newest first
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	products, err := h.productService.List(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, products)
}

// GetProduct returns one product owned by the authenticated user
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	product, err := h.productService.Get(r.Context(), userID, chi.URLParam(r, constants.ParamID))
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

// UpdateProduct applies a partial update and optionally replaces the image
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	in, upload, cleanup, err := h.parseProductRequest(w, r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	defer cleanup()

	product, err := h.productService.Update(r.Context(), userID, chi.URLParam(r, constants.ParamID), in, upload)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and its image
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := h.productService.Delete(r.Context(), userID, chi.URLParam(r, constants.ParamID)); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgProductDeleted)
}

func noop() {}

// parseProductRequest reads the product fields and the optional image.
// The returned cleanup closes the uploaded file and removes temp files.
func (h *ProductHandler) parseProductRequest(w http.ResponseWriter, r *http.Request) (models.ProductInput, *models.ImageUpload, func(), error) {
	if !isMultipart(r) {
		var in models.ProductInput
		if err := utils.DecodeAndValidate(r, &in); err != nil {
			return in, nil, noop, err
		}
		return in, nil, noop, nil
	}

	// The form may carry one image plus the text fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+constants.MaxRequestBodySize)
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return models.ProductInput{}, nil, noop, utils.NewValidationError(constants.FormFieldImage, constants.MsgInvalidImage)
		}
		return models.ProductInput{}, nil, noop, utils.NewBadRequestError(err.Error())
	}
	cleanupForm := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn().Err(err).Msg("Failed to remove multipart temp files")
		}
	}

	in, err := productInputFromForm(r)
	if err != nil {
		cleanupForm()
		return in, nil, noop, err
	}
	if err := utils.ValidateStruct(&in); err != nil {
		cleanupForm()
		return in, nil, noop, err
	}

	file, header, err := r.FormFile(constants.FormFieldImage)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanupForm, nil
	}
	if err != nil {
		cleanupForm()
		return in, nil, noop, utils.NewValidationError(constants.FormFieldImage, constants.MsgInvalidImage)
	}

	upload, err := imageUpload(file, header)
	if err != nil {
		_ = file.Close()
		cleanupForm()
		return in, nil, noop, err
	}

	return in, upload, func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close uploaded file")
		}
		cleanupForm()
	}, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(constants.HeaderContentType), "multipart/form-data")
}

func productInputFromForm(r *http.Request) (models.ProductInput, error) {
	in := models.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		SKU:         strings.TrimSpace(r.FormValue("sku")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	if v := strings.TrimSpace(r.FormValue("quantity")); v != "" {
		quantity, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, utils.NewValidationError("quantity", "Must be a whole number")
		}
		in.Quantity = quantity
	}

	if v := strings.TrimSpace(r.FormValue("price")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, utils.NewValidationError("price", "Must be a number")
		}
		in.Price = price
	}

	return in, nil
}

// imageUpload describes the uploaded file, sniffing the content type when
// the client did not send one.
func imageUpload(file multipart.File, header *multipart.FileHeader) (*models.ImageUpload, error) {
	contentType := header.Header.Get(constants.HeaderContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		buf := make([]byte, sniffLen)
		n, err := io.ReadFull(file, buf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, utils.NewValidationError(constants.FormFieldImage, constants.MsgInvalidImage)
		}
		contentType = http.DetectContentType(buf[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, utils.NewInternalServerError(err)
		}
	}

	return &models.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}
