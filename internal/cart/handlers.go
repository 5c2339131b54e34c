package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sarmad153/nextrade-api/internal/common"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc *Service

	// Totals policy applied on top of the engine summary.
	TaxBps          int
	ShippingFlat    int64
	ShippingFreeMin int64
	Currency        string
}

type lineResponse struct {
	ID            string              `json:"id"`
	ProductID     string              `json:"productId"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Qty           int32               `json:"qty"`
	BasePrice     int64               `json:"basePrice"`
	UnitPrice     int64               `json:"unitPrice"`
	LineTotal     int64               `json:"lineTotal"`
	Discount      int64               `json:"discount"`
	AppliedTierID string              `json:"appliedTierId,omitempty"`
	NextTier      *pricing.TierRecord `json:"nextTier,omitempty"`
}

type summaryResponse struct {
	Subtotal          int64   `json:"subtotal"`
	TotalSavings      int64   `json:"totalSavings"`
	OriginalSubtotal  int64   `json:"originalSubtotal"`
	SavingsPercentage float64 `json:"savingsPercentage"`
	Tax               int64   `json:"tax"`
	Shipping          int64   `json:"shipping"`
	Total             int64   `json:"total"`
	Currency          string  `json:"currency"`
}

// Create creates or returns a guest cart identifier. Authenticated
// callers get their active user cart instead.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		AnonID string `json:"anonId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	var cartID, anonID string
	if userID, ok := common.UserID(r.Context()); ok && userID != "" {
		cart, err := h.Svc.EnsureCart(r.Context(), &userID, nil)
		if err != nil {
			h.writeError(w, err)
			return
		}
		cartID = UUIDString(cart.ID)
	} else {
		anonID = strings.TrimSpace(payload.AnonID)
		if anonID == "" {
			anonID = uuid.NewString()
		}
		cart, err := h.Svc.EnsureCart(r.Context(), nil, &anonID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		cartID = UUIDString(cart.ID)
	}
	body := map[string]any{"cartId": cartID}
	if anonID != "" {
		body["anonId"] = anonID
	}
	common.JSONData(w, http.StatusCreated, body)
}

// Get returns cart contents with freshly computed quotes and totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	view, err := h.Svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	lines := make([]lineResponse, 0, len(view.Lines))
	for _, ln := range view.Lines {
		lines = append(lines, toLineResponse(ln))
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"cartId":  UUIDString(view.Cart.ID),
		"items":   lines,
		"summary": h.summarize(view.Summary),
	})
}

// AddItem handles POST /carts/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if payload.Qty < 1 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "qty must be at least 1", nil)
		return
	}
	if err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), payload.ProductID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// UpdateItem handles PATCH /carts/{id}/items/{itemId}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if payload.Qty < 1 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "qty must be at least 1", nil)
		return
	}
	if err := h.Svc.UpdateQty(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// Flush handles POST /carts/{id}/items/flush: a batch of pending
// quantity edits applied atomically.
func (h *Handler) Flush(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Changes []struct {
			ItemID string `json:"itemId"`
			Qty    int    `json:"qty"`
		} `json:"changes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	changes := make([]QtyChange, 0, len(payload.Changes))
	for _, ch := range payload.Changes {
		changes = append(changes, QtyChange{ItemID: ch.ItemID, Qty: ch.Qty})
	}
	if err := h.Svc.FlushQtyChanges(r.Context(), chi.URLParam(r, "id"), changes); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemoveItem handles DELETE /carts/{id}/items/{itemId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// Merge handles POST /carts/merge for authenticated users: the guest
// cart named in the body is folded into the caller's user cart.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required to merge carts", nil)
		return
	}
	var payload struct {
		GuestCartID string `json:"guestCartId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.GuestCartID) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "guestCartId is required", nil)
		return
	}
	cartID, err := h.Svc.Merge(r.Context(), payload.GuestCartID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{"cartId": cartID})
}

func (h *Handler) summarize(s pricing.Summary) summaryResponse {
	shipping := h.ShippingFlat
	if h.ShippingFreeMin > 0 && s.Subtotal >= h.ShippingFreeMin {
		shipping = 0
	}
	totals := pricing.ComputeTotals(s, h.TaxBps, shipping)
	return summaryResponse{
		Subtotal:          s.Subtotal,
		TotalSavings:      s.Savings,
		OriginalSubtotal:  s.OriginalSubtotal,
		SavingsPercentage: s.SavingsPercent(),
		Tax:               totals.Tax,
		Shipping:          totals.Shipping,
		Total:             totals.Total,
		Currency:          h.Currency,
	}
}

func toLineResponse(ln Line) lineResponse {
	resp := lineResponse{
		ID:            UUIDString(ln.Item.ID),
		ProductID:     UUIDString(ln.Item.ProductID),
		Title:         ln.Item.Title,
		Slug:          ln.Item.Slug,
		Qty:           ln.Item.Qty,
		BasePrice:     ln.Quote.BasePrice,
		UnitPrice:     ln.Quote.UnitPrice,
		LineTotal:     ln.Quote.LineTotal,
		Discount:      ln.Quote.Discount,
		AppliedTierID: ln.Quote.AppliedTierID,
	}
	if ln.Quote.NextTier != nil {
		records := pricing.RecordsFromTiers([]pricing.Tier{*ln.Quote.NextTier})
		if len(records) == 1 {
			resp.NextTier = &records[0]
		}
	}
	return resp
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusInternalServerError
			}
			common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
