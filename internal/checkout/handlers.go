package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sarmad153/nextrade-api/internal/cart"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
)

// Handler exposes checkout over HTTP.
type Handler struct {
	Svc *Service
}

type createRequest struct {
	CartID  string  `json:"cartId"`
	Address Address `json:"address"`
	Notes   string  `json:"notes"`
}

type orderItemResponse struct {
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

type orderResponse struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	Currency         string              `json:"currency"`
	Subtotal         int64               `json:"subtotal"`
	TotalSavings     int64               `json:"totalSavings"`
	OriginalSubtotal int64               `json:"originalSubtotal"`
	Tax              int64               `json:"tax"`
	Shipping         int64               `json:"shipping"`
	Total            int64               `json:"total"`
	Items            []orderItemResponse `json:"items"`
}

// Create handles POST /checkout.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.Svc.Create(r.Context(), userID, Input{
		CartID:  req.CartID,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, toOrderResponse(result.Order, result.Items))
}

func toOrderResponse(o dbgen.Order, items []dbgen.OrderItem) orderResponse {
	resp := orderResponse{
		ID:               cart.UUIDString(o.ID),
		Status:           o.Status,
		Currency:         o.Currency,
		Subtotal:         o.PricingSubtotal,
		TotalSavings:     o.PricingSavings,
		OriginalSubtotal: o.PricingOriginalSubtotal,
		Tax:              o.PricingTax,
		Shipping:         o.PricingShipping,
		Total:            o.PricingTotal,
		Items:            make([]orderItemResponse, 0, len(items)),
	}
	for _, item := range items {
		line := orderItemResponse{
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

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCartNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart has no items", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
