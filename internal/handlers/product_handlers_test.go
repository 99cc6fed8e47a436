package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// pngHeader is enough for http.DetectContentType to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func setupProductTest(t *testing.T) (*ProductHandler, *MockProductService) {
	t.Helper()
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, 1<<20)
	t.Cleanup(func() { mockService.AssertExpectations(t) })
	return handler, mockService
}

type formFile struct {
	name        string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func withProductID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(constants.ParamID, id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var productFields = map[string]string{
	"name":        "Laptop",
	"sku":         "SKU-1",
	"category":    "Electronics",
	"quantity":    "3",
	"price":       "999.5",
	"description": "A laptop",
}

var productInput = models.ProductInput{
	Name:        "Laptop",
	SKU:         "SKU-1",
	Category:    "Electronics",
	Quantity:    3,
	Price:       999.5,
	Description: "A laptop",
}

func TestNewProductHandler_PanicsOnNilService(t *testing.T) {
	assert.Panics(t, func() { NewProductHandler(nil, 0) })
}

func TestProductHandler_CreateProduct_Multipart(t *testing.T) {
	handler, mockService := setupProductTest(t)

	var uploaded []byte
	mockService.On("Create", mock.Anything, "u1", productInput, mock.AnythingOfType("*models.ImageUpload")).
		Run(func(args mock.Arguments) {
			upload := args.Get(3).(*models.ImageUpload)
			assert.Equal(t, "photo.png", upload.FileName)
			assert.Equal(t, "image/png", upload.ContentType)
			assert.Equal(t, int64(len(pngHeader)), upload.Size)
			body, err := io.ReadAll(upload.Body)
			require.NoError(t, err)
			uploaded = body
		}).
		Return(&models.Product{ID: "p1", UserID: "u1", Name: "Laptop", Image: &models.Image{FilePath: "/uploads/x.png"}}, nil)

	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", productFields,
		&formFile{name: "photo.png", contentType: "image/png", content: pngHeader}), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, pngHeader, uploaded)

	var got models.Product
	decodeData(t, rr, &got)
	assert.Equal(t, "p1", got.ID)
	require.NotNil(t, got.Image)
	assert.Equal(t, "/uploads/x.png", got.Image.FilePath)
}

func TestProductHandler_CreateProduct_SniffsContentType(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("Create", mock.Anything, "u1", productInput, mock.AnythingOfType("*models.ImageUpload")).
		Run(func(args mock.Arguments) {
			upload := args.Get(3).(*models.ImageUpload)
			assert.Equal(t, "image/png", upload.ContentType)
			body, err := io.ReadAll(upload.Body)
			require.NoError(t, err)
			assert.Equal(t, pngHeader, body)
		}).
		Return(&models.Product{ID: "p1"}, nil)

	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", productFields,
		&formFile{name: "photo", contentType: "application/octet-stream", content: pngHeader}), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestProductHandler_CreateProduct_WithoutImage(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("Create", mock.Anything, "u1", productInput, (*models.ImageUpload)(nil)).
		Return(&models.Product{ID: "p1"}, nil)

	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", productFields, nil), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestProductHandler_CreateProduct_JSON(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("Create", mock.Anything, "u1", productInput, (*models.ImageUpload)(nil)).
		Return(&models.Product{ID: "p1"}, nil)

	req := withUser(jsonRequest(t, http.MethodPost, "/api/products", productInput), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestProductHandler_CreateProduct_InvalidQuantity(t *testing.T) {
	handler, _ := setupProductTest(t)

	fields := map[string]string{"name": "Laptop", "quantity": "three"}
	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", fields, nil), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Contains(t, env.Error.Details, "quantity")
}

func TestProductHandler_CreateProduct_MissingFields(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("Create", mock.Anything, "u1", models.ProductInput{Name: "Laptop"}, (*models.ImageUpload)(nil)).
		Return(nil, utils.NewValidationError("", constants.MsgMissingProductFields))

	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", map[string]string{"name": "Laptop"}, nil), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, constants.MsgMissingProductFields, env.Error.Message)
}

func TestProductHandler_CreateProduct_ImageTooLarge(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, 16)

	big := bytes.Repeat([]byte("a"), constants.MaxRequestBodySize+64)
	req := withUser(multipartRequest(t, http.MethodPost, "/api/products", productFields,
		&formFile{name: "big.png", contentType: "image/png", content: big}), "u1")
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_CreateProduct_Unauthenticated(t *testing.T) {
	handler, _ := setupProductTest(t)

	req := multipartRequest(t, http.MethodPost, "/api/products", productFields, nil)
	rr := httptest.NewRecorder()
	handler.CreateProduct(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProductHandler_ListProducts(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("List", mock.Anything, "u1").Return([]*models.Product{
		{ID: "p2", Name: "Newer"},
		{ID: "p1", Name: "Older"},
	}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/products", nil), "u1")
	rr := httptest.NewRecorder()
	handler.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.Product
	decodeData(t, rr, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
}

func TestProductHandler_ListProducts_Empty(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("List", mock.Anything, "u1").Return([]*models.Product{}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/products", nil), "u1")
	rr := httptest.NewRecorder()
	handler.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
}

func TestProductHandler_GetProduct(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"Found", nil, http.StatusOK, ""},
		{"Not found", utils.NewNotFoundMessage(constants.MsgProductNotFound), http.StatusNotFound, constants.MsgProductNotFound},
		{"Owned by someone else", utils.NewOwnershipError(), http.StatusUnauthorized, constants.MsgProductNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := setupProductTest(t)
			if tt.err != nil {
				mockService.On("Get", mock.Anything, "u1", "p1").Return(nil, tt.err)
			} else {
				mockService.On("Get", mock.Anything, "u1", "p1").Return(&models.Product{ID: "p1", UserID: "u1"}, nil)
			}

			req := withProductID(withUser(httptest.NewRequest(http.MethodGet, "/api/products/p1", nil), "u1"), "p1")
			rr := httptest.NewRecorder()
			handler.GetProduct(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMsg != "" {
				env := decodeEnvelope(t, rr)
				assert.Equal(t, tt.wantMsg, env.Error.Message)
			}
		})
	}
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	handler, mockService := setupProductTest(t)

	in := models.ProductInput{Name: "Renamed"}
	mockService.On("Update", mock.Anything, "u1", "p1", in, (*models.ImageUpload)(nil)).
		Return(&models.Product{ID: "p1", Name: "Renamed", Quantity: 3}, nil)

	req := withProductID(withUser(multipartRequest(t, http.MethodPatch, "/api/products/p1",
		map[string]string{"name": "Renamed"}, nil), "u1"), "p1")
	rr := httptest.NewRecorder()
	handler.UpdateProduct(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.Product
	decodeData(t, rr, &got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestProductHandler_UpdateProduct_UploadFailure(t *testing.T) {
	handler, mockService := setupProductTest(t)

	mockService.On("Update", mock.Anything, "u1", "p1", mock.Anything, mock.AnythingOfType("*models.ImageUpload")).
		Return(nil, utils.NewUploadError(assert.AnError))

	req := withProductID(withUser(multipartRequest(t, http.MethodPatch, "/api/products/p1", nil,
		&formFile{name: "photo.png", contentType: "image/png", content: pngHeader}), "u1"), "p1")
	rr := httptest.NewRecorder()
	handler.UpdateProduct(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, constants.MsgImageUploadFailed, env.Error.Message)
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		handler, mockService := setupProductTest(t)
		mockService.On("Delete", mock.Anything, "u1", "p1").Return(nil)

		req := withProductID(withUser(httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil), "u1"), "p1")
		rr := httptest.NewRecorder()
		handler.DeleteProduct(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var data utils.MessageData
		decodeData(t, rr, &data)
		assert.Equal(t, constants.MsgProductDeleted, data.Message)
	})

	t.Run("Not owner", func(t *testing.T) {
		handler, mockService := setupProductTest(t)
		mockService.On("Delete", mock.Anything, "u2", "p1").Return(utils.NewOwnershipError())

		req := withProductID(withUser(httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil), "u2"), "p1")
		rr := httptest.NewRecorder()
		handler.DeleteProduct(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
