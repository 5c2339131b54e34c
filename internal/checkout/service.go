package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sarmad153/nextrade-api/internal/cart"
	"github.com/sarmad153/nextrade-api/internal/catalog"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/events"
	"github.com/sarmad153/nextrade-api/internal/obs"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrCartNotFound indicates the cart does not exist or belongs to someone else.
var ErrCartNotFound = fmt.Errorf("cart %w", common.ErrNotFound)

// ErrInvalidInput flags a malformed checkout payload.
var ErrInvalidInput = common.ErrInvalidInput

// Address is the shipping destination captured at checkout.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a Address) validate() error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Line1) == "" ||
		strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.PostalCode) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("shipping address is incomplete: %w", ErrInvalidInput)
	}
	return nil
}

// Input carries everything needed to place an order.
type Input struct {
	CartID  string
	Address Address
	Notes   string
}

// Result is the placed order with its snapshotted items.
type Result struct {
	Order dbgen.Order
	Items []dbgen.OrderItem
}

// queryProvider narrows dbgen.Queries to the statements checkout runs
// inside its transaction.
type queryProvider interface {
	GetCartByID(ctx context.Context, id pgtype.UUID) (dbgen.Cart, error)
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	CreateOrder(ctx context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error)
	CreateOrderItem(ctx context.Context, arg dbgen.CreateOrderItemParams) (dbgen.OrderItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Service turns carts into orders. Every line is repriced through the
// same quote path the cart uses, then frozen onto the order rows.
type Service struct {
	Pool txBeginner

	TaxBps          int
	ShippingFlat    int64
	ShippingFreeMin int64
	Currency        string

	Events *events.Bus
	Now    func() time.Time

	// Queries binds the store to an open transaction. Nil means the
	// generated queries are used.
	Queries func(tx pgx.Tx) queryProvider
}

func (s *Service) txQueries(tx pgx.Tx) queryProvider {
	if s.Queries != nil {
		return s.Queries(tx)
	}
	return dbgen.New(tx)
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create places an order for the user's cart. The cart read, reprice
// and order insert happen inside one transaction so concurrent price
// edits cannot produce a torn snapshot.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Result, error) {
	if s == nil {
		return Result{}, errors.New("checkout service not configured")
	}
	if err := in.Address.validate(); err != nil {
		countCheckout("rejected")
		return Result{}, err
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		countCheckout("rejected")
		return Result{}, fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	cID, err := cart.ToUUID(in.CartID)
	if err != nil {
		countCheckout("rejected")
		return Result{}, fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	if s.Pool == nil {
		return Result{}, errors.New("checkout service not configured")
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		countCheckout("error")
		return Result{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.txQueries(tx)

	c, err := qtx.GetCartByID(ctx, cID)
	if err != nil {
		countCheckout("rejected")
		if errors.Is(err, pgx.ErrNoRows) {
			return Result{}, ErrCartNotFound
		}
		return Result{}, err
	}
	if c.UserID.Valid && !cart.UUIDEqual(c.UserID, uID) {
		countCheckout("rejected")
		return Result{}, ErrCartNotFound
	}

	items, err := qtx.ListCartItems(ctx, cID)
	if err != nil {
		countCheckout("error")
		return Result{}, err
	}
	if len(items) == 0 {
		countCheckout("rejected")
		return Result{}, ErrEmptyCart
	}

	quotes := make([]pricing.Quote, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product, err := qtx.GetProductByID(ctx, item.ProductID)
		if err != nil {
			countCheckout("rejected")
			if errors.Is(err, pgx.ErrNoRows) {
				return Result{}, fmt.Errorf("product %s is no longer available: %w", item.Slug, ErrInvalidInput)
			}
			return Result{}, err
		}
		if product.Status != "active" {
			countCheckout("rejected")
			return Result{}, fmt.Errorf("product %s is no longer available: %w", item.Slug, ErrInvalidInput)
		}
		facts := catalog.PricingFacts(product)
		quotes = append(quotes, pricing.QuoteLine(facts, int(item.Qty)))
		lines = append(lines, pricing.Line{Facts: facts, Qty: int(item.Qty)})
	}

	summary := pricing.Summarize(lines)
	shipping := s.ShippingFlat
	if s.ShippingFreeMin > 0 && summary.Subtotal >= s.ShippingFreeMin {
		shipping = 0
	}
	totals := pricing.ComputeTotals(summary, s.TaxBps, shipping)

	address, err := json.Marshal(in.Address)
	if err != nil {
		countCheckout("error")
		return Result{}, fmt.Errorf("encode shipping address: %w", err)
	}
	notes := pgtype.Text{}
	if trimmed := strings.TrimSpace(in.Notes); trimmed != "" {
		notes = pgtype.Text{String: trimmed, Valid: true}
	}
	currency := s.Currency
	if currency == "" {
		currency = "USD"
	}

	order, err := qtx.CreateOrder(ctx, dbgen.CreateOrderParams{
		UserID:                  uID,
		CartID:                  cID,
		Status:                  "pending",
		Currency:                currency,
		PricingSubtotal:         totals.Subtotal,
		PricingSavings:          totals.Savings,
		PricingOriginalSubtotal: summary.OriginalSubtotal,
		PricingTax:              totals.Tax,
		PricingShipping:         totals.Shipping,
		PricingTotal:            totals.Total,
		ShippingAddress:         address,
		Notes:                   notes,
	})
	if err != nil {
		countCheckout("error")
		return Result{}, err
	}

	orderItems := make([]dbgen.OrderItem, 0, len(items))
	for i, item := range items {
		q := quotes[i]
		applied := pgtype.Text{}
		if q.AppliedTierID != "" {
			applied = pgtype.Text{String: q.AppliedTierID, Valid: true}
		}
		row, err := qtx.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
			OrderID:       order.ID,
			ProductID:     item.ProductID,
			Title:         item.Title,
			Slug:          item.Slug,
			Qty:           item.Qty,
			BasePrice:     q.BasePrice,
			UnitPrice:     q.UnitPrice,
			LineTotal:     q.LineTotal,
			Discount:      q.Discount,
			AppliedTierID: applied,
		})
		if err != nil {
			countCheckout("error")
			return Result{}, err
		}
		orderItems = append(orderItems, row)
	}

	for _, item := range items {
		if err := qtx.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: item.ID, CartID: cID}); err != nil {
			countCheckout("error")
			return Result{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		countCheckout("error")
		return Result{}, err
	}
	countCheckout("placed")

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderCreated, order.ID, map[string]any{
			"orderId":  cart.UUIDString(order.ID),
			"userId":   cart.UUIDString(order.UserID),
			"total":    order.PricingTotal,
			"currency": order.Currency,
			"placedAt": s.now().UTC().Format(time.RFC3339),
		})
	}
	return Result{Order: order, Items: orderItems}, nil
}

func countCheckout(result string) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
}
