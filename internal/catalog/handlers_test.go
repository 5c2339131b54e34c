package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sarmad153/nextrade-api/internal/catalog"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
)

type productsResponse struct {
	Data       []catalog.ProductListItem `json:"data"`
	Pagination struct {
		Page       int   `json:"page"`
		PerPage    int   `json:"per_page"`
		TotalItems int64 `json:"total_items"`
	} `json:"pagination"`
}

type productDetailResponse struct {
	Data catalog.ProductDetail `json:"data"`
}

type categoriesResponse struct {
	Data []catalog.Category `json:"data"`
}

type relatedResponse struct {
	Data []catalog.ProductListItem `json:"data"`
}

type fakeCatalogQueries struct {
	categories []dbgen.Category
	products   []dbgen.Product
}

func (f *fakeCatalogQueries) ListCategories(context.Context) ([]dbgen.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogQueries) CountProductsPublic(_ context.Context, arg dbgen.CountProductsPublicParams) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeCatalogQueries) ListProductsPublic(_ context.Context, arg dbgen.ListProductsPublicParams) ([]dbgen.Product, error) {
	end := int(arg.OffsetValue + arg.LimitValue)
	if end > len(f.products) {
		end = len(f.products)
	}
	start := int(arg.OffsetValue)
	if start > end {
		start = end
	}
	return f.products[start:end], nil
}

func (f *fakeCatalogQueries) GetProductBySlug(_ context.Context, slug string) (dbgen.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return dbgen.Product{}, pgx.ErrNoRows
}

func (f *fakeCatalogQueries) ListRelatedByCategory(_ context.Context, arg dbgen.ListRelatedByCategoryParams) ([]dbgen.Product, error) {
	var out []dbgen.Product
	for _, p := range f.products {
		if p.CategoryID == arg.CategoryID && p.ID != arg.ExcludeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func pgUUID(t *testing.T) pgtype.UUID {
	t.Helper()
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func newFakeCatalogQueries(t *testing.T) *fakeCatalogQueries {
	t.Helper()
	category := dbgen.Category{ID: pgUUID(t), Name: "Electronics", Slug: "electronics"}
	bulk := dbgen.Product{
		ID:                 pgUUID(t),
		SellerID:           pgUUID(t),
		CategoryID:         category.ID,
		Title:              "USB-C Cable 2m",
		Slug:               "usb-c-cable-2m",
		RegularPrice:       1500,
		SalePrice:          pgtype.Int8{Int64: 1200, Valid: true},
		BulkPricingEnabled: true,
		BulkTiers:          []byte(`[{"minQuantity":10,"discountType":"percentage","discountValue":10},{"minQuantity":50,"discountType":"percentage","discountValue":25}]`),
		Stock:              400,
		Status:             "active",
	}
	plain := dbgen.Product{
		ID:           pgUUID(t),
		SellerID:     bulk.SellerID,
		CategoryID:   category.ID,
		Title:        "HDMI Adapter",
		Slug:         "hdmi-adapter",
		RegularPrice: 2900,
		Stock:        25,
		Status:       "active",
	}
	return &fakeCatalogQueries{
		categories: []dbgen.Category{category},
		products:   []dbgen.Product{bulk, plain},
	}
}

func withSlug(req *http.Request, slug string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("slug", slug)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCatalogHandlers(t *testing.T) {
	queries := newFakeCatalogQueries(t)
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)

	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	t.Run("categories", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
		rec := httptest.NewRecorder()
		handler.Categories(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp categoriesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "electronics", resp.Data[0].Slug)
	})

	t.Run("products list resolves sale price", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=1", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "2", rec.Header().Get("X-Total-Count"))

		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "USB-C Cable 2m", resp.Data[0].Title)
		require.Equal(t, int64(1200), resp.Data[0].Price)
		require.Equal(t, int64(1500), resp.Data[0].RegularPrice)
		require.True(t, resp.Data[0].BulkPricing)
		require.Equal(t, 1, resp.Pagination.Page)
		require.Equal(t, int64(2), resp.Pagination.TotalItems)
	})

	t.Run("product detail includes tier previews", func(t *testing.T) {
		req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/usb-c-cable-2m", nil), "usb-c-cable-2m")
		rec := httptest.NewRecorder()
		handler.ProductDetail(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, int64(1200), resp.Data.Price)
		require.Len(t, resp.Data.Tiers, 2)
		require.Len(t, resp.Data.TierPreviews, 2)
		// 10% off the 1200 sale base at qty 10, 25% off at qty 50
		require.Equal(t, int64(1080), resp.Data.TierPreviews[0].UnitPrice)
		require.Equal(t, int64(120), resp.Data.TierPreviews[0].SavingsPerUnit)
		require.Equal(t, int64(900), resp.Data.TierPreviews[1].UnitPrice)
	})

	t.Run("product detail without bulk pricing omits tiers", func(t *testing.T) {
		req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/hdmi-adapter", nil), "hdmi-adapter")
		rec := httptest.NewRecorder()
		handler.ProductDetail(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Empty(t, resp.Data.Tiers)
		require.Empty(t, resp.Data.TierPreviews)
		require.Equal(t, int64(2900), resp.Data.Price)
	})

	t.Run("product detail not found", func(t *testing.T) {
		req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "missing")
		rec := httptest.NewRecorder()
		handler.ProductDetail(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("related products", func(t *testing.T) {
		req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/usb-c-cable-2m/related", nil), "usb-c-cable-2m")
		rec := httptest.NewRecorder()
		handler.Related(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp relatedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "hdmi-adapter", resp.Data[0].Slug)
	})

	t.Run("invalid page rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=zero", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
