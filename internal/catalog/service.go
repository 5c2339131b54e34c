package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

const relatedLimit = 8

type queryProvider interface {
	ListCategories(ctx context.Context) ([]dbgen.Category, error)
	CountProductsPublic(ctx context.Context, arg dbgen.CountProductsPublicParams) (int64, error)
	ListProductsPublic(ctx context.Context, arg dbgen.ListProductsPublicParams) ([]dbgen.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (dbgen.Product, error)
	ListRelatedByCategory(ctx context.Context, arg dbgen.ListRelatedByCategoryParams) ([]dbgen.Product, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// ProductListItem represents an entry in list/related responses. Price
// is the resolved base price, already accounting for an active sale.
type ProductListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Price        int64  `json:"price"`
	RegularPrice int64  `json:"regularPrice"`
	SalePrice    *int64 `json:"salePrice,omitempty"`
	BulkPricing  bool   `json:"bulkPricing"`
	InStock      bool   `json:"inStock"`
}

// TierPreview shows the effective per-unit price once a tier threshold
// is reached, as displayed in the product detail tier table.
type TierPreview struct {
	ID             string `json:"id"`
	MinQuantity    int32  `json:"minQuantity"`
	UnitPrice      int64  `json:"unitPrice"`
	SavingsPerUnit int64  `json:"savingsPerUnit"`
}

// ProductDetail aggregates the full detail payload.
type ProductDetail struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Slug         string               `json:"slug"`
	Description  *string              `json:"description,omitempty"`
	Price        int64                `json:"price"`
	RegularPrice int64                `json:"regularPrice"`
	SalePrice    *int64               `json:"salePrice,omitempty"`
	InStock      bool                 `json:"inStock"`
	Stock        int32                `json:"stock"`
	BulkPricing  bool                 `json:"bulkPricing"`
	Tiers        []pricing.TierRecord `json:"bulkTiers,omitempty"`
	TierPreviews []TierPreview        `json:"tierPreviews,omitempty"`
	CategoryID   *string              `json:"categoryId,omitempty"`
}

// Category represents the public category payload.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parentId,omitempty"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
	}
	params.Query = strings.TrimSpace(values.Get("q"))
	params.Category = strings.TrimSpace(values.Get("category"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, badRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}

	limit := s.defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, badRequest("limit", "limit must be a positive integer", err)
		}
		limit = l
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	params.Limit = limit
	return params, nil
}

// ListCategories returns all categories with parent linkage.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	result := make([]Category, 0, len(rows))
	for _, row := range rows {
		cat := Category{
			ID:   uuidString(row.ID),
			Name: row.Name,
			Slug: row.Slug,
		}
		if row.ParentID.Valid {
			parent := uuidString(row.ParentID)
			cat.ParentID = &parent
		}
		result = append(result, cat)
	}
	return result, nil
}

// ListProducts returns filtered product list with pagination metadata.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	key, shouldUseCache := s.listCacheKey(params)
	if shouldUseCache && s.cache != nil {
		var cached cachedList
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return ProductListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}

	countParams := dbgen.CountProductsPublicParams{
		Query:    params.Query,
		Category: params.Category,
	}
	total, err := s.queries.CountProductsPublic(ctx, countParams)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}
	offset := int32((params.Page - 1) * params.Limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListProductsPublic(ctx, dbgen.ListProductsPublicParams{
		Query:       params.Query,
		Category:    params.Category,
		LimitValue:  int32(params.Limit),
		OffsetValue: offset,
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, listItem(row))
	}
	result := ProductListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	if shouldUseCache && s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return result, nil
}

// GetProductDetail returns product detail with the bulk tier table.
func (s *Service) GetProductDetail(ctx context.Context, slug string) (ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductDetail{}, badRequest("slug", "slug is required", nil)
	}
	cacheKey := detailCacheKey(slug)
	if s.cache != nil {
		var cached ProductDetail
		ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	product, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductDetail{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return ProductDetail{}, fmt.Errorf("get product by slug: %w", err)
	}

	facts := PricingFacts(product)
	tiers := facts.Tiers
	detail := ProductDetail{
		ID:           uuidString(product.ID),
		Title:        product.Title,
		Slug:         product.Slug,
		Price:        pricing.BasePrice(facts),
		RegularPrice: product.RegularPrice,
		InStock:      product.Stock > 0,
		Stock:        product.Stock,
		BulkPricing:  product.BulkPricingEnabled,
	}
	if product.SalePrice.Valid {
		sale := product.SalePrice.Int64
		detail.SalePrice = &sale
	}
	if product.Description.Valid {
		desc := product.Description.String
		detail.Description = &desc
	}
	if product.CategoryID.Valid {
		cat := uuidString(product.CategoryID)
		detail.CategoryID = &cat
	}
	if product.BulkPricingEnabled && len(tiers) > 0 {
		detail.Tiers = pricing.RecordsFromTiers(tiers)
		detail.TierPreviews = tierPreviews(facts, tiers)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, detail)
	}
	return detail, nil
}

// ListRelatedProducts fetches related products from the same category.
func (s *Service) ListRelatedProducts(ctx context.Context, slug string) ([]ProductListItem, error) {
	product, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	if !product.CategoryID.Valid {
		return []ProductListItem{}, nil
	}
	rows, err := s.queries.ListRelatedByCategory(ctx, dbgen.ListRelatedByCategoryParams{
		CategoryID: product.CategoryID,
		ExcludeID:  product.ID,
		LimitValue: relatedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, listItem(row))
	}
	return items, nil
}

// InvalidateProduct evicts cached entries for the given slug after a
// seller mutation.
func (s *Service) InvalidateProduct(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, detailCacheKey(slug), listCacheKeyPopular)
}

func listItem(row dbgen.Product) ProductListItem {
	facts := PricingFacts(row)
	item := ProductListItem{
		ID:           uuidString(row.ID),
		Title:        row.Title,
		Slug:         row.Slug,
		Price:        pricing.BasePrice(facts),
		RegularPrice: row.RegularPrice,
		BulkPricing:  row.BulkPricingEnabled,
		InStock:      row.Stock > 0,
	}
	if row.SalePrice.Valid {
		sale := row.SalePrice.Int64
		item.SalePrice = &sale
	}
	return item
}

// tierPreviews quotes each threshold quantity so the detail page can
// render the exact per-unit price the engine will charge.
func tierPreviews(facts pricing.Facts, tiers []pricing.Tier) []TierPreview {
	previews := make([]TierPreview, 0, len(tiers))
	for _, t := range tiers {
		quote := pricing.QuoteLine(facts, int(t.MinQty))
		previews = append(previews, TierPreview{
			ID:             t.ID,
			MinQuantity:    t.MinQty,
			UnitPrice:      quote.UnitPrice,
			SavingsPerUnit: quote.BasePrice - quote.UnitPrice,
		})
	}
	return previews
}

type cachedList struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
}

const listCacheKeyPopular = "catalog:products:list:popular"

func (s *Service) listCacheKey(params ListParams) (string, bool) {
	if params.Page != s.defaultPage {
		return "", false
	}
	if params.Limit != s.defaultLimit {
		return "", false
	}
	if params.Query != "" || params.Category != "" {
		return "", false
	}
	return listCacheKeyPopular, true
}

func detailCacheKey(slug string) string {
	return "catalog:products:detail:" + slug
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
