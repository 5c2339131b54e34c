package seller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sarmad153/nextrade-api/internal/cart"
	"github.com/sarmad153/nextrade-api/internal/catalog"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/events"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

// queryProvider narrows dbgen.Queries to the seller product operations.
type queryProvider interface {
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
	ArchiveProduct(ctx context.Context, arg dbgen.ArchiveProductParams) (int64, error)
	ListProductsBySeller(ctx context.Context, arg dbgen.ListProductsBySellerParams) ([]dbgen.Product, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
}

// Handler serves seller product management. Routes using it must sit
// behind the seller role middleware.
type Handler struct {
	Q        queryProvider
	Validate *validator.Validate
	Catalog  *catalog.Service
	Events   *events.Bus

	DefaultLimit int
	MaxLimit     int
}

type productRequest struct {
	Title              string            `json:"title" validate:"required,min=3,max=160"`
	CategoryID         string            `json:"categoryId" validate:"required,uuid"`
	Description        string            `json:"description" validate:"max=4000"`
	RegularPrice       int64             `json:"regularPrice" validate:"required,gt=0"`
	SalePrice          *int64            `json:"salePrice" validate:"omitempty,gt=0"`
	BulkPricingEnabled bool              `json:"bulkPricingEnabled"`
	BulkTiers          []json.RawMessage `json:"bulkTiers"`
	Stock              int32             `json:"stock" validate:"gte=0"`
}

type productResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Slug               string               `json:"slug"`
	Description        string               `json:"description,omitempty"`
	CategoryID         string               `json:"categoryId,omitempty"`
	RegularPrice       int64                `json:"regularPrice"`
	SalePrice          *int64               `json:"salePrice,omitempty"`
	BulkPricingEnabled bool                 `json:"bulkPricingEnabled"`
	BulkTiers          []pricing.TierRecord `json:"bulkTiers,omitempty"`
	Stock              int32                `json:"stock"`
	Status             string               `json:"status"`
}

// Create handles POST /seller/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}
	categoryID, err := cart.ToUUID(req.CategoryID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid category id", nil)
		return
	}
	product, err := h.Q.CreateProduct(r.Context(), dbgen.CreateProductParams{
		SellerID:           sellerID,
		CategoryID:         categoryID,
		Title:              req.Title,
		Slug:               newSlug(req.Title),
		Description:        toText(req.Description),
		RegularPrice:       req.RegularPrice,
		SalePrice:          toInt8(req.SalePrice),
		BulkPricingEnabled: req.BulkPricingEnabled,
		BulkTiers:          encodeTiers(req.BulkTiers),
		Stock:              req.Stock,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	h.afterMutation(r.Context(), product, events.TopicProductUpdated)
	common.JSONData(w, http.StatusCreated, toResponse(product))
}

// Update handles PUT /seller/products/{id}. The seller id is part of
// the WHERE clause so one seller cannot edit another's listing.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}
	productID, err := cart.ToUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}
	categoryID, err := cart.ToUUID(req.CategoryID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid category id", nil)
		return
	}
	product, err := h.Q.UpdateProduct(r.Context(), dbgen.UpdateProductParams{
		ID:                 productID,
		SellerID:           sellerID,
		CategoryID:         categoryID,
		Title:              req.Title,
		Description:        toText(req.Description),
		RegularPrice:       req.RegularPrice,
		SalePrice:          toInt8(req.SalePrice),
		BulkPricingEnabled: req.BulkPricingEnabled,
		BulkTiers:          encodeTiers(req.BulkTiers),
		Stock:              req.Stock,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	h.afterMutation(r.Context(), product, events.TopicProductUpdated)
	common.JSONData(w, http.StatusOK, toResponse(product))
}

// Archive handles DELETE /seller/products/{id}. Listings are soft
// deleted so existing order snapshots keep their references.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}
	productID, err := cart.ToUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	product, err := h.Q.GetProductByID(r.Context(), productID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	affected, err := h.Q.ArchiveProduct(r.Context(), dbgen.ArchiveProductParams{
		ID:       productID,
		SellerID: sellerID,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	if affected == 0 {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	h.afterMutation(r.Context(), product, events.TopicProductArchived)
	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /seller/products.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}
	defaultLimit := h.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	maxLimit := h.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}
	page, perPage := common.ParsePagination(r, defaultLimit, maxLimit)
	products, err := h.Q.ListProductsBySeller(r.Context(), dbgen.ListProductsBySellerParams{
		SellerID:    sellerID,
		LimitValue:  int32(perPage),
		OffsetValue: common.Offset(page, perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"products": out,
		"pagination": common.Pagination{
			Page:    page,
			PerPage: perPage,
		},
	})
}

func (h *Handler) sellerID(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return pgtype.UUID{}, false
	}
	id, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return pgtype.UUID{}, false
	}
	return id, true
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return req, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			details := map[string]any{}
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					details[fe.Field()] = fe.Tag()
				}
			}
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid product payload", details)
			return req, false
		}
	}
	if req.SalePrice != nil && *req.SalePrice >= req.RegularPrice {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "salePrice must be below regularPrice", nil)
		return req, false
	}
	return req, true
}

// afterMutation evicts catalog caches and records the domain event.
func (h *Handler) afterMutation(ctx context.Context, product dbgen.Product, topic string) {
	if h.Catalog != nil && product.Slug != "" {
		h.Catalog.InvalidateProduct(ctx, product.Slug)
	}
	if h.Events != nil && product.ID.Valid {
		_, _ = h.Events.Emit(ctx, topic, product.ID, map[string]any{
			"productId": cart.UUIDString(product.ID),
			"slug":      product.Slug,
		})
	}
}

// encodeTiers stores the tier list as submitted. The list is opaque to
// this layer: malformed entries are the quote path's concern, which
// drops them during normalization. Object entries without an id get one
// assigned so applied tiers stay reportable.
func encodeTiers(entries []json.RawMessage) []byte {
	if len(entries) == 0 {
		return []byte("[]")
	}
	out := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		var obj map[string]any
		if err := json.Unmarshal(entry, &obj); err != nil || obj == nil {
			out = append(out, entry)
			continue
		}
		if id, _ := obj["id"].(string); id == "" {
			obj["id"] = uuid.NewString()
			if reencoded, err := json.Marshal(obj); err == nil {
				out = append(out, reencoded)
				continue
			}
		}
		out = append(out, entry)
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return []byte("[]")
	}
	return encoded
}

func toResponse(p dbgen.Product) productResponse {
	resp := productResponse{
		ID:                 cart.UUIDString(p.ID),
		Title:              p.Title,
		Slug:               p.Slug,
		RegularPrice:       p.RegularPrice,
		BulkPricingEnabled: p.BulkPricingEnabled,
		Stock:              p.Stock,
		Status:             p.Status,
	}
	if p.Description.Valid {
		resp.Description = p.Description.String
	}
	if p.CategoryID.Valid {
		resp.CategoryID = cart.UUIDString(p.CategoryID)
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Int64
		resp.SalePrice = &sale
	}
	if len(p.BulkTiers) > 0 {
		var records []pricing.TierRecord
		if err := json.Unmarshal(p.BulkTiers, &records); err == nil {
			resp.BulkTiers = records
		}
	}
	return resp
}

func toText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

func toInt8(value *int64) pgtype.Int8 {
	if value == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *value, Valid: true}
}

// newSlug derives a URL slug from the title with a random suffix so
// repeated titles never collide.
func newSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
