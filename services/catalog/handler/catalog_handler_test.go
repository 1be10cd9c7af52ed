package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	catalog "antique-catalog/internal/catalogService"
	"antique-catalog/internal/models"
	"antique-catalog/internal/notify"
	"antique-catalog/internal/repository"
	"antique-catalog/services/catalog/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testAPI struct {
	router *gin.Engine
	svc    *catalog.CatalogService
	inbox  *notify.Inbox
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()

	inbox := notify.NewInbox(0, nil)
	svc := catalog.NewCatalogService(catalog.Dependencies{Store: repository.NewMemoryStore(0), Notifier: inbox}, catalog.DefaultConfig())
	require.NoError(t, svc.Load(context.Background()))
	t.Cleanup(svc.Close)

	h := NewCatalogHandler(svc, inbox)
	router := gin.New()
	router.GET("/products", h.ListProductsHandler)
	router.POST("/products", h.CreateProductHandler)
	router.GET("/products/:id", h.GetProductHandler)
	router.PUT("/products/:id", h.UpdateProductHandler)
	router.DELETE("/products/:id", h.DeleteProductHandler)
	router.GET("/products/:id/offers", h.ListProductOffersHandler)
	router.GET("/categories", h.ListCategoriesHandler)
	router.GET("/submissions", h.ListSubmissionsHandler)
	router.POST("/submissions", h.CreateSubmissionHandler)
	router.GET("/submissions/:id", h.GetSubmissionHandler)
	router.PUT("/submissions/:id", h.UpdateSubmissionHandler)
	router.DELETE("/submissions/:id", h.DeleteSubmissionHandler)
	router.POST("/submissions/:id/promote", h.PromoteSubmissionHandler)
	router.GET("/offers", h.ListOffersHandler)
	router.POST("/offers", h.CreateOfferHandler)
	router.GET("/offers/:id", h.GetOfferHandler)
	router.PUT("/offers/:id", h.UpdateOfferHandler)
	router.DELETE("/offers/:id", h.DeleteOfferHandler)
	router.GET("/offers-discounts", h.ListOfferDiscountsHandler)
	router.POST("/offers-discounts", h.CreateOfferDiscountHandler)
	router.PUT("/offers-discounts/:id", h.UpdateOfferDiscountHandler)
	router.DELETE("/offers-discounts/:id", h.DeleteOfferDiscountHandler)
	router.GET("/notifications", h.ListNotificationsHandler)
	router.POST("/notifications/:id/read", h.MarkNotificationReadHandler)

	return testAPI{router: router, svc: svc, inbox: inbox}
}

func (a testAPI) do(t *testing.T, method, path string, body any) (int, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func validSubmission() helpers.SubmissionRequest {
	return helpers.SubmissionRequest{
		Title:       "Brass Lamp",
		Description: "Early 1900s oil lamp converted to electric.",
		Price:       500,
		Category:    "Lighting & Mirrors",
		Phone:       "+91 98765 43210",
		Address:     "4 Mill Lane",
	}
}

func TestCreateSubmissionHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
		expectedMsg    string
	}{
		{name: "success", requestBody: validSubmission(), expectedStatus: http.StatusCreated, expectedMsg: "submission received successfully"},
		{name: "invalid_json", requestBody: `{invalid json}`, expectedStatus: http.StatusBadRequest, expectedMsg: "invalid request payload"},
		{
			name: "missing_title",
			requestBody: func() helpers.SubmissionRequest {
				r := validSubmission()
				r.Title = ""
				return r
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "too_many_images",
			requestBody: func() helpers.SubmissionRequest {
				r := validSubmission()
				r.Images = []string{"a", "b", "c", "d"}
				return r
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "unknown_category",
			requestBody: func() helpers.SubmissionRequest {
				r := validSubmission()
				r.Category = "Jewellery"
				return r
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "unknown category",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newTestAPI(t)

			code, resp := api.do(t, http.MethodPost, "/submissions", tt.requestBody)
			require.Equal(t, tt.expectedStatus, code)
			require.Equal(t, tt.expectedMsg, resp.Message)

			if code == http.StatusCreated {
				var sub models.AntiqueSubmission
				require.NoError(t, json.Unmarshal(resp.Data, &sub))
				require.NotEmpty(t, sub.ID)
				require.Equal(t, models.StatusPending, sub.Status)
				require.Len(t, api.svc.Submissions(), 1)
			}
		})
	}
}

func TestSubmissionReviewFlow(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	_, resp := api.do(t, http.MethodPost, "/submissions", validSubmission())
	var sub models.AntiqueSubmission
	require.NoError(t, json.Unmarshal(resp.Data, &sub))

	// promoting before approval is refused
	code, resp := api.do(t, http.MethodPost, "/submissions/"+sub.ID+"/promote", nil)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "status change not allowed", resp.Message)

	update := helpers.UpdateSubmissionRequest{SubmissionRequest: validSubmission(), Status: models.StatusApproved}
	code, resp = api.do(t, http.MethodPut, "/submissions/"+sub.ID, update)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &sub))
	require.Equal(t, models.StatusApproved, sub.Status)

	// approved is terminal
	update.Status = models.StatusRejected
	code, _ = api.do(t, http.MethodPut, "/submissions/"+sub.ID, update)
	require.Equal(t, http.StatusConflict, code)

	code, resp = api.do(t, http.MethodPost, "/submissions/"+sub.ID+"/promote", nil)
	require.Equal(t, http.StatusCreated, code)
	var product models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	require.Equal(t, "Brass Lamp", product.Title)

	code, resp = api.do(t, http.MethodGet, "/products?category=Lighting%20%26%20Mirrors", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 3, resp.Count)

	code, resp = api.do(t, http.MethodGet, "/notifications?audience=end-user", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, resp.Count)

	var notes []notify.Notification
	require.NoError(t, json.Unmarshal(resp.Data, &notes))
	code, resp = api.do(t, http.MethodPost, "/notifications/"+notes[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, code)
	var read notify.Notification
	require.NoError(t, json.Unmarshal(resp.Data, &read))
	require.True(t, read.Read)

	code, _ = api.do(t, http.MethodGet, "/notifications?audience=everyone", nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateUnknownSubmission(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	update := helpers.UpdateSubmissionRequest{SubmissionRequest: validSubmission(), Status: models.StatusApproved}
	code, resp := api.do(t, http.MethodPut, "/submissions/missing", update)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "submission not found", resp.Message)

	code, _ = api.do(t, http.MethodPut, "/submissions/missing", map[string]any{"title": "x"})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestProductHandlers(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	code, resp := api.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 4, resp.Count)

	req := helpers.ProductRequest{Title: "Walnut Desk", Description: "Writing desk", Price: 30000, Category: "Vintage Furniture"}
	code, resp = api.do(t, http.MethodPost, "/products", req)
	require.Equal(t, http.StatusCreated, code)
	var created models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	req.Price = 28000
	code, resp = api.do(t, http.MethodPut, "/products/"+created.ID, req)
	require.Equal(t, http.StatusOK, code)
	var updated models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	require.Equal(t, "28000", updated.Price.String())

	code, _ = api.do(t, http.MethodGet, "/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodDelete, "/products/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(t, http.MethodDelete, "/products/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, resp = api.do(t, http.MethodGet, "/products/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "product not found", resp.Message)

	code, resp = api.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, len(models.Categories), resp.Count)
}

func TestOfferHandlers(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	product := api.svc.Products()[0]

	offer := helpers.OfferRequest{ProductID: product.ID, Amount: 80000, Name: "Ravi", ContactNumber: "+91 91111 11111"}

	code, _ := api.do(t, http.MethodPost, "/offers", helpers.OfferRequest{ProductID: product.ID, Amount: 0, Name: "Ravi", ContactNumber: "1"})
	require.Equal(t, http.StatusBadRequest, code)

	missing := offer
	missing.ProductID = "gone"
	code, resp := api.do(t, http.MethodPost, "/offers", missing)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "product not found", resp.Message)

	code, resp = api.do(t, http.MethodPost, "/offers", offer)
	require.Equal(t, http.StatusCreated, code)
	var created models.Offer
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	code, resp = api.do(t, http.MethodGet, "/products/"+product.ID+"/offers", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, resp.Count)

	code, resp = api.do(t, http.MethodPut, "/offers/"+created.ID, helpers.UpdateOfferRequest{OfferRequest: offer, Status: models.StatusRejected})
	require.Equal(t, http.StatusOK, code)
	var updated models.Offer
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	require.Equal(t, models.StatusRejected, updated.Status)

	list, err := api.inbox.List(notify.AudienceEndUser)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("Your offer for %q has been rejected. Feel free to browse our other antiques.", product.Title), list[0].Message)

	code, _ = api.do(t, http.MethodDelete, "/offers/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(t, http.MethodGet, "/offers/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestOfferDiscountHandlers(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	code, _ := api.do(t, http.MethodPost, "/offers-discounts", helpers.OfferDiscountRequest{Title: "Sale", Description: "Big", Status: "paused"})
	require.Equal(t, http.StatusBadRequest, code)

	code, resp := api.do(t, http.MethodPost, "/offers-discounts", helpers.OfferDiscountRequest{Title: "Sale", Description: "Big"})
	require.Equal(t, http.StatusCreated, code)
	var d models.OfferDiscount
	require.NoError(t, json.Unmarshal(resp.Data, &d))
	require.Equal(t, models.DiscountActive, d.Status)

	code, resp = api.do(t, http.MethodPut, "/offers-discounts/"+d.ID, helpers.OfferDiscountRequest{Title: "Sale", Description: "Big", Status: models.DiscountInactive})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &d))
	require.Equal(t, models.DiscountInactive, d.Status)

	code, resp = api.do(t, http.MethodGet, "/offers-discounts", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, resp.Count)

	code, _ = api.do(t, http.MethodDelete, "/offers-discounts/"+d.ID, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(t, http.MethodPut, "/offers-discounts/"+d.ID, helpers.OfferDiscountRequest{Title: "Sale", Description: "Big"})
	require.Equal(t, http.StatusNotFound, code)
}

// failingService fails every product creation
type failingService struct {
	CatalogServiceInterface
	err error
}

func (f failingService) AddProduct(context.Context, models.ProductFields) (models.Product, error) {
	return models.Product{}, f.err
}

func TestCreateProductHandler_ServiceFailure(t *testing.T) {
	t.Parallel()

	h := NewCatalogHandler(failingService{err: errors.New("disk I/O error")}, notify.NewInbox(0, nil))
	router := gin.New()
	router.POST("/products", h.CreateProductHandler)

	body, err := json.Marshal(helpers.ProductRequest{Title: "Desk", Description: "Oak", Price: 1, Category: "Others"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "internal server error")
}
