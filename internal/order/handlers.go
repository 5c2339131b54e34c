package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sarmad153/nextrade-api/internal/cart"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/events"
)

// queryProvider narrows dbgen.Queries to what order handlers use.
type queryProvider interface {
	ListOrdersByUser(ctx context.Context, arg dbgen.ListOrdersByUserParams) ([]dbgen.Order, error)
	CountOrdersByUser(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg dbgen.UpdateOrderStatusParams) (dbgen.Order, error)
}

// Handler serves buyer-facing order endpoints.
type Handler struct {
	Q      queryProvider
	Events *events.Bus

	DefaultLimit int
	MaxLimit     int
}

type itemResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"productId"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Qty           int32  `json:"qty"`
	BasePrice     int64  `json:"basePrice"`
	UnitPrice     int64  `json:"unitPrice"`
	LineTotal     int64  `json:"lineTotal"`
	Discount      int64  `json:"discount"`
	AppliedTierID string `json:"appliedTierId,omitempty"`
}

type summaryItem struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Currency  string `json:"currency"`
	Total     int64  `json:"total"`
	CreatedAt string `json:"createdAt"`
}

type detailResponse struct {
	ID               string         `json:"id"`
	Status           string         `json:"status"`
	Currency         string         `json:"currency"`
	Subtotal         int64          `json:"subtotal"`
	TotalSavings     int64          `json:"totalSavings"`
	OriginalSubtotal int64          `json:"originalSubtotal"`
	Tax              int64          `json:"tax"`
	Shipping         int64          `json:"shipping"`
	Total            int64          `json:"total"`
	CreatedAt        string         `json:"createdAt"`
	Items            []itemResponse `json:"items"`
}

// List handles GET /orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
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

	total, err := h.Q.CountOrdersByUser(r.Context(), uID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	orders, err := h.Q.ListOrdersByUser(r.Context(), dbgen.ListOrdersByUserParams{
		UserID:      uID,
		LimitValue:  int32(perPage),
		OffsetValue: common.Offset(page, perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	items := make([]summaryItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, summaryItem{
			ID:        cart.UUIDString(o.ID),
			Status:    o.Status,
			Currency:  o.Currency,
			Total:     o.PricingTotal,
			CreatedAt: o.CreatedAt.Time.UTC().Format(time.RFC3339),
		})
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"orders": items,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
		},
	})
}

// Get handles GET /orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	items, err := h.Q.ListOrderItems(r.Context(), order.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	common.JSONData(w, http.StatusOK, toDetail(order, items))
}

// Cancel handles POST /orders/{id}/cancel. Only orders that have not
// left the pending state can be canceled by the buyer.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if order.Status != "pending" {
		common.JSONError(w, http.StatusConflict, "CONFLICT", "order can no longer be canceled", nil)
		return
	}
	updated, err := h.Q.UpdateOrderStatus(r.Context(), dbgen.UpdateOrderStatusParams{
		ID:     order.ID,
		Status: "canceled",
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicOrderCanceled, updated.ID, map[string]any{
			"orderId": cart.UUIDString(updated.ID),
			"status":  updated.Status,
		})
	}
	items, err := h.Q.ListOrderItems(r.Context(), updated.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	common.JSONData(w, http.StatusOK, toDetail(updated, items))
}

// loadOwned fetches the order and enforces that the caller owns it.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (dbgen.Order, bool) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return dbgen.Order{}, false
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return dbgen.Order{}, false
	}
	oID, err := cart.ToUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return dbgen.Order{}, false
	}
	order, err := h.Q.GetOrderByID(r.Context(), oID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return dbgen.Order{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return dbgen.Order{}, false
	}
	if !cart.UUIDEqual(order.UserID, uID) && !common.HasRole(r.Context(), "admin") {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return dbgen.Order{}, false
	}
	return order, true
}

func toDetail(o dbgen.Order, items []dbgen.OrderItem) detailResponse {
	resp := detailResponse{
		ID:               cart.UUIDString(o.ID),
		Status:           o.Status,
		Currency:         o.Currency,
		Subtotal:         o.PricingSubtotal,
		TotalSavings:     o.PricingSavings,
		OriginalSubtotal: o.PricingOriginalSubtotal,
		Tax:              o.PricingTax,
		Shipping:         o.PricingShipping,
		Total:            o.PricingTotal,
		CreatedAt:        o.CreatedAt.Time.UTC().Format(time.RFC3339),
		Items:            make([]itemResponse, 0, len(items)),
	}
	for _, item := range items {
		line := itemResponse{
			ID:        cart.UUIDString(item.ID),
			ProductID: cart.UUIDString(item.ProductID),
			Title:     item.Title,
			Slug:      item.Slug,
			Qty:       item.Qty,
			BasePrice: item.BasePrice,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Discount:  item.Discount,
		}
		if item.AppliedTierID.Valid {
			line.AppliedTierID = item.AppliedTierID.String
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
