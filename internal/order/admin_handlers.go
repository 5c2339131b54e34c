package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/sarmad153/nextrade-api/internal/cart"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/events"
)

// AdminHandler serves admin order management endpoints. Routes using it
// must sit behind the admin role middleware.
type AdminHandler struct {
	Q      queryProvider
	Events *events.Bus
}

var allowedStatuses = map[string]bool{
	"pending":   true,
	"paid":      true,
	"shipped":   true,
	"delivered": true,
	"canceled":  true,
}

// Terminal statuses reject further transitions.
var terminalStatuses = map[string]bool{
	"delivered": true,
	"canceled":  true,
}

// PatchStatus handles PATCH /admin/orders/{id}/status.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if !allowedStatuses[payload.Status] {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown order status", map[string]any{
			"status": payload.Status,
		})
		return
	}
	oID, err := cart.ToUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	current, err := h.Q.GetOrderByID(r.Context(), oID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	if current.Status == payload.Status {
		common.JSONData(w, http.StatusOK, toDetailHead(current))
		return
	}
	if terminalStatuses[current.Status] {
		common.JSONError(w, http.StatusConflict, "CONFLICT", "order is in a terminal status", map[string]any{
			"status": current.Status,
		})
		return
	}
	updated, err := h.Q.UpdateOrderStatus(r.Context(), dbgen.UpdateOrderStatusParams{
		ID:     oID,
		Status: payload.Status,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicOrderStatusChanged, updated.ID, map[string]any{
			"orderId": cart.UUIDString(updated.ID),
			"from":    current.Status,
			"to":      updated.Status,
		})
	}
	common.JSONData(w, http.StatusOK, toDetailHead(updated))
}

// toDetailHead renders the order without loading its items.
func toDetailHead(o dbgen.Order) detailResponse {
	return toDetail(o, nil)
}
