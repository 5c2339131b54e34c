package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sarmad153/nextrade-api/internal/catalog"
	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/events"
	"github.com/sarmad153/nextrade-api/internal/obs"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

// ErrNotFound indicates the requested cart or item could not be located.
var ErrNotFound = fmt.Errorf("cart %w", common.ErrNotFound)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = common.ErrInvalidInput

// QtyChange is one pending quantity edit applied during a batch flush.
type QtyChange struct {
	ItemID string
	Qty    int
}

// Line pairs a stored cart item with its freshly computed quote.
// Quotes are never persisted for carts; they are recomputed from
// product facts on every read so price and tier changes surface
// immediately.
type Line struct {
	Item  dbgen.CartItem
	Quote pricing.Quote
}

// View is the fully priced cart snapshot returned to handlers.
type View struct {
	Cart    dbgen.Cart
	Lines   []Line
	Summary pricing.Summary
}

// queryProvider narrows dbgen.Queries to the statements the cart uses.
type queryProvider interface {
	CreateCart(ctx context.Context, arg dbgen.CreateCartParams) (dbgen.Cart, error)
	CreateCartItem(ctx context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) error
	FindCartItemByProduct(ctx context.Context, arg dbgen.FindCartItemByProductParams) (dbgen.CartItem, error)
	GetActiveCartByAnon(ctx context.Context, anonID pgtype.Text) (dbgen.Cart, error)
	GetActiveCartByUser(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	GetCartByID(ctx context.Context, id pgtype.UUID) (dbgen.Cart, error)
	GetCartItemByID(ctx context.Context, id pgtype.UUID) (dbgen.CartItem, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error)
	TouchCart(ctx context.Context, arg dbgen.TouchCartParams) error
	TransferCartToUser(ctx context.Context, arg dbgen.TransferCartToUserParams) error
	UpdateCartItemQty(ctx context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error)
}

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Q      queryProvider
	Pool   txBeginner
	TTL    time.Duration
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

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureCart loads or creates a cart for the provided identifiers.
func (s *Service) EnsureCart(ctx context.Context, userID *string, anonID *string) (dbgen.Cart, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}

	if userID != nil && *userID != "" {
		uid, err := toUUID(*userID)
		if err != nil {
			return dbgen.Cart{}, fmt.Errorf("parse user id: %w", err)
		}
		cart, err := s.Q.GetActiveCartByUser(ctx, uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Q.CreateCart(ctx, dbgen.CreateCartParams{
					UserID:    uid,
					AnonID:    pgtype.Text{},
					ExpiresAt: expires,
				})
			}
			return dbgen.Cart{}, err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cart.ID, ExpiresAt: expires})
		return cart, nil
	}

	if anonID != nil && *anonID != "" {
		cart, err := s.Q.GetActiveCartByAnon(ctx, pgtype.Text{String: *anonID, Valid: true})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Q.CreateCart(ctx, dbgen.CreateCartParams{
					UserID:    pgtype.UUID{},
					AnonID:    pgtype.Text{String: *anonID, Valid: true},
					ExpiresAt: expires,
				})
			}
			return dbgen.Cart{}, err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cart.ID, ExpiresAt: expires})
		return cart, nil
	}

	return dbgen.Cart{}, ErrInvalidInput
}

// AddItem inserts or increments a cart item. Only the product reference
// and quantity are stored; prices are derived at read time.
func (s *Service) AddItem(ctx context.Context, cartID string, productID string, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if qty < 1 {
		return fmt.Errorf("qty must be at least 1: %w", ErrInvalidInput)
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	pID, err := toUUID(productID)
	if err != nil {
		return fmt.Errorf("parse product id: %w", err)
	}

	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	item, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
		CartID:    cID,
		ProductID: pID,
	})
	if err == nil {
		if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: item.ID, Qty: item.Qty + int32(qty)}); err != nil {
			return err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	product, err := s.Q.GetProductByID(ctx, pID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product not found: %w", ErrInvalidInput)
		}
		return err
	}
	if product.Status != "active" {
		return fmt.Errorf("product is not available: %w", ErrInvalidInput)
	}
	if _, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
		CartID:    cID,
		ProductID: pID,
		Title:     product.Title,
		Slug:      product.Slug,
		Qty:       int32(qty),
	}); err != nil {
		return err
	}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return nil
}

// UpdateQty updates the quantity for a single cart item.
func (s *Service) UpdateQty(ctx context.Context, cartID string, itemID string, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if qty < 1 {
		return fmt.Errorf("qty must be at least 1: %w", ErrInvalidInput)
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	item, err := s.Q.GetCartItemByID(ctx, iID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !uuidEqual(item.CartID, cID) {
		return ErrNotFound
	}
	if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: item.ID, Qty: int32(qty)}); err != nil {
		return err
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return nil
}

// FlushQtyChanges applies a batch of accumulated quantity edits in one
// transaction. The whole batch commits or none of it does; a single bad
// change leaves the cart exactly as it was.
func (s *Service) FlushQtyChanges(ctx context.Context, cartID string, changes []QtyChange) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if len(changes) == 0 {
		return nil
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	for _, ch := range changes {
		if ch.Qty < 1 {
			countFlush("rejected", len(changes))
			return fmt.Errorf("qty must be at least 1: %w", ErrInvalidInput)
		}
		if _, err := toUUID(ch.ItemID); err != nil {
			countFlush("rejected", len(changes))
			return fmt.Errorf("parse item id: %w", ErrInvalidInput)
		}
	}
	if s.Pool == nil {
		return errors.New("cart service not configured")
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.txQueries(tx)

	for _, ch := range changes {
		iID, err := toUUID(ch.ItemID)
		if err != nil {
			countFlush("rejected", len(changes))
			return fmt.Errorf("parse item id: %w: %w", err, ErrInvalidInput)
		}
		item, err := qtx.GetCartItemByID(ctx, iID)
		if err != nil {
			countFlush("rejected", len(changes))
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !uuidEqual(item.CartID, cID) {
			countFlush("rejected", len(changes))
			return ErrNotFound
		}
		if _, err := qtx.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: item.ID, Qty: int32(ch.Qty)}); err != nil {
			countFlush("error", len(changes))
			return err
		}
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	if err := qtx.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires}); err != nil {
		countFlush("error", len(changes))
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		countFlush("error", len(changes))
		return err
	}
	countFlush("applied", len(changes))
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicCartFlushed, cID, map[string]any{
			"cartId":  uuidString(cID),
			"changes": len(changes),
		})
	}
	return nil
}

// RemoveItem deletes a cart item.
func (s *Service) RemoveItem(ctx context.Context, cartID string, itemID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	if err := s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: iID, CartID: cID}); err != nil {
		return err
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return nil
}

// Merge moves guest cart items into the user's active cart returning the
// resulting cart identifier. The guest cart is retired afterwards: its
// expiry is pulled back to now and it is reassigned to the user, so a
// second merge of the same cart is rejected.
func (s *Service) Merge(ctx context.Context, guestCartID string, userID string) (string, error) {
	if s == nil || s.Q == nil {
		return "", errors.New("cart service not configured")
	}
	gID, err := toUUID(guestCartID)
	if err != nil {
		return "", fmt.Errorf("parse guest cart id: %w", err)
	}
	uID, err := toUUID(userID)
	if err != nil {
		return "", fmt.Errorf("parse user id: %w", err)
	}
	guestCart, err := s.Q.GetCartByID(ctx, gID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if guestCart.UserID.Valid {
		return "", fmt.Errorf("cart already belongs to a user: %w", ErrInvalidInput)
	}
	userIDCopy := userID
	userCart, err := s.EnsureCart(ctx, &userIDCopy, nil)
	if err != nil {
		return "", err
	}
	if uuidEqual(userCart.ID, gID) {
		return uuidString(userCart.ID), nil
	}
	guestItems, err := s.Q.ListCartItems(ctx, gID)
	if err != nil {
		return "", err
	}
	for _, item := range guestItems {
		existing, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
			CartID:    userCart.ID,
			ProductID: item.ProductID,
		})
		if err == nil {
			if existing.Qty < item.Qty {
				if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: existing.ID, Qty: item.Qty}); err != nil {
					return "", err
				}
			}
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		if _, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
			CartID:    userCart.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Slug:      item.Slug,
			Qty:       item.Qty,
		}); err != nil {
			return "", err
		}
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: userCart.ID, ExpiresAt: expires})
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: guestCart.ID, ExpiresAt: pgtype.Timestamptz{Time: s.now(), Valid: true}})
	if err := s.Q.TransferCartToUser(ctx, dbgen.TransferCartToUserParams{ID: guestCart.ID, UserID: uID}); err != nil {
		return "", err
	}
	return uuidString(userCart.ID), nil
}

// View loads a cart and reprices every line through the bulk engine.
func (s *Service) View(ctx context.Context, cartID string) (View, error) {
	if s == nil || s.Q == nil {
		return View{}, errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return View{}, fmt.Errorf("parse cart id: %w", err)
	}
	cart, err := s.Q.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	if cart.ExpiresAt.Valid && cart.ExpiresAt.Time.Before(s.now()) {
		return View{}, ErrNotFound
	}
	items, err := s.Q.ListCartItems(ctx, cID)
	if err != nil {
		return View{}, err
	}
	view := View{Cart: cart, Lines: make([]Line, 0, len(items))}
	pricedLines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product, err := s.Q.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// product withdrawn after it was carted, show it zero-priced
				view.Lines = append(view.Lines, Line{Item: item})
				continue
			}
			return View{}, err
		}
		facts := catalog.PricingFacts(product)
		quote := pricing.QuoteLine(facts, int(item.Qty))
		countQuote(quote)
		view.Lines = append(view.Lines, Line{Item: item, Quote: quote})
		pricedLines = append(pricedLines, pricing.Line{Facts: facts, Qty: int(item.Qty)})
	}
	view.Summary = pricing.Summarize(pricedLines)
	return view, nil
}

func countQuote(q pricing.Quote) {
	if obs.PricingQuoteTotal == nil {
		return
	}
	outcome := "base"
	if q.AppliedTierID != "" {
		outcome = "tiered"
	}
	obs.PricingQuoteTotal.WithLabelValues(outcome).Inc()
}

func countFlush(result string, size int) {
	if obs.CartFlushTotal != nil {
		obs.CartFlushTotal.WithLabelValues(result).Inc()
	}
	if obs.CartFlushSize != nil {
		obs.CartFlushSize.WithLabelValues(result).Observe(float64(size))
	}
}

func toUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func uuidEqual(a, b pgtype.UUID) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Bytes == b.Bytes
}

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	return toUUID(value)
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	return uuidString(id)
}

// UUIDEqual reports whether two UUID values are both valid and identical.
func UUIDEqual(a, b pgtype.UUID) bool {
	return uuidEqual(a, b)
}
