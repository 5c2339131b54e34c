package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/sarmad153/nextrade-api/internal/cart"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

const (
	testUserID = "3b9f6c1e-5b3a-4b44-bf0d-0c9f6a6a2f10"
	testCartID = "7c2f1f60-0d5a-4e0b-96bb-6a2f16c1fd01"
)

func validAddress() Address {
	return Address{
		Name:       "Ada Lovelace",
		Line1:      "12 Analytical Way",
		City:       "London",
		PostalCode: "N1 9GU",
		Country:    "GB",
	}
}

func mustUUID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	id, err := cart.ToUUID(value)
	require.NoError(t, err)
	return id
}

// fakeStore serves both the cart read path and the checkout transaction
// so one fixture can be priced through both call sites.
type fakeStore struct {
	cartRow    dbgen.Cart
	items      []dbgen.CartItem
	products   map[pgtype.UUID]dbgen.Product
	orders     []dbgen.Order
	orderItems []dbgen.OrderItem
}

func (f *fakeStore) GetCartByID(_ context.Context, id pgtype.UUID) (dbgen.Cart, error) {
	if cart.UUIDEqual(f.cartRow.ID, id) {
		return f.cartRow, nil
	}
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) ListCartItems(_ context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error) {
	var out []dbgen.CartItem
	for _, item := range f.items {
		if cart.UUIDEqual(item.CartID, cartID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return dbgen.Product{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateOrder(_ context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error) {
	order := dbgen.Order{
		ID:                      pgtype.UUID{Bytes: uuid.New(), Valid: true},
		UserID:                  arg.UserID,
		CartID:                  arg.CartID,
		Status:                  arg.Status,
		Currency:                arg.Currency,
		PricingSubtotal:         arg.PricingSubtotal,
		PricingSavings:          arg.PricingSavings,
		PricingOriginalSubtotal: arg.PricingOriginalSubtotal,
		PricingTax:              arg.PricingTax,
		PricingShipping:         arg.PricingShipping,
		PricingTotal:            arg.PricingTotal,
		ShippingAddress:         arg.ShippingAddress,
		Notes:                   arg.Notes,
	}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeStore) CreateOrderItem(_ context.Context, arg dbgen.CreateOrderItemParams) (dbgen.OrderItem, error) {
	item := dbgen.OrderItem{
		ID:            pgtype.UUID{Bytes: uuid.New(), Valid: true},
		OrderID:       arg.OrderID,
		ProductID:     arg.ProductID,
		Title:         arg.Title,
		Slug:          arg.Slug,
		Qty:           arg.Qty,
		BasePrice:     arg.BasePrice,
		UnitPrice:     arg.UnitPrice,
		LineTotal:     arg.LineTotal,
		Discount:      arg.Discount,
		AppliedTierID: arg.AppliedTierID,
	}
	f.orderItems = append(f.orderItems, item)
	return item, nil
}

func (f *fakeStore) DeleteCartItem(_ context.Context, arg dbgen.DeleteCartItemParams) error {
	kept := f.items[:0]
	for _, item := range f.items {
		if cart.UUIDEqual(item.ID, arg.ID) && cart.UUIDEqual(item.CartID, arg.CartID) {
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return nil
}

// Stubs below satisfy the cart service; the read path of this fixture
// never reaches them.

func (f *fakeStore) CreateCart(context.Context, dbgen.CreateCartParams) (dbgen.Cart, error) {
	return dbgen.Cart{}, errors.New("not supported in this fixture")
}

func (f *fakeStore) CreateCartItem(context.Context, dbgen.CreateCartItemParams) (dbgen.CartItem, error) {
	return dbgen.CartItem{}, errors.New("not supported in this fixture")
}

func (f *fakeStore) FindCartItemByProduct(context.Context, dbgen.FindCartItemByProductParams) (dbgen.CartItem, error) {
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (f *fakeStore) GetActiveCartByAnon(context.Context, pgtype.Text) (dbgen.Cart, error) {
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) GetActiveCartByUser(context.Context, pgtype.UUID) (dbgen.Cart, error) {
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCartItemByID(context.Context, pgtype.UUID) (dbgen.CartItem, error) {
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (f *fakeStore) TouchCart(context.Context, dbgen.TouchCartParams) error {
	return nil
}

func (f *fakeStore) TransferCartToUser(context.Context, dbgen.TransferCartToUserParams) error {
	return errors.New("not supported in this fixture")
}

func (f *fakeStore) UpdateCartItemQty(context.Context, dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error) {
	return dbgen.CartItem{}, pgx.ErrNoRows
}

type fakeTx struct {
	pgx.Tx
	committed bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	return nil
}

type fakeBeginner struct {
	tx *fakeTx
}

func (b fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return b.tx, nil
}

func newFixtureStore(t *testing.T) *fakeStore {
	t.Helper()
	uID := mustUUID(t, testUserID)
	cID := mustUUID(t, testCartID)
	crateID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	mugID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	future := pgtype.Timestamptz{Time: time.Now().Add(time.Hour), Valid: true}

	return &fakeStore{
		cartRow: dbgen.Cart{ID: cID, UserID: uID, ExpiresAt: future},
		products: map[pgtype.UUID]dbgen.Product{
			crateID: {
				ID:                 crateID,
				Title:              "Warehouse Crate",
				Slug:               "warehouse-crate",
				RegularPrice:       1000,
				BulkPricingEnabled: true,
				BulkTiers:          []byte(`[{"id":"tier-10","minQuantity":10,"discountType":"percent","discountValue":15}]`),
				Status:             "active",
			},
			mugID: {
				ID:           mugID,
				Title:        "Enamel Mug",
				Slug:         "enamel-mug",
				RegularPrice: 500,
				SalePrice:    pgtype.Int8{Int64: 450, Valid: true},
				Status:       "active",
			},
		},
		items: []dbgen.CartItem{
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, CartID: cID, ProductID: crateID, Title: "Warehouse Crate", Slug: "warehouse-crate", Qty: 10},
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, CartID: cID, ProductID: mugID, Title: "Enamel Mug", Slug: "enamel-mug", Qty: 2},
		},
	}
}

func TestCreateRejectsIncompleteAddress(t *testing.T) {
	svc := &Service{}
	addr := validAddress()
	addr.Line1 = "  "
	_, err := svc.Create(context.Background(), testUserID, Input{CartID: testCartID, Address: addr})
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCreateRejectsMalformedUserID(t *testing.T) {
	svc := &Service{}
	_, err := svc.Create(context.Background(), "nope", Input{CartID: testCartID, Address: validAddress()})
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCreateRejectsMalformedCartID(t *testing.T) {
	svc := &Service{}
	_, err := svc.Create(context.Background(), testUserID, Input{CartID: "nope", Address: validAddress()})
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAddressValidate(t *testing.T) {
	require.NoError(t, validAddress().validate())

	missingCountry := validAddress()
	missingCountry.Country = ""
	require.Error(t, missingCountry.validate())
}

// The order snapshot must show exactly the numbers the cart showed the
// buyer a moment earlier. Both call sites price the same fixture here
// and every figure is compared field by field.
func TestCreateSnapshotMatchesCartView(t *testing.T) {
	const (
		taxBps  = 850
		flatFee = int64(599)
		freeMin = int64(100000)
	)
	store := newFixtureStore(t)

	cartSvc := &cart.Service{Q: store}
	view, err := cartSvc.View(context.Background(), testCartID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)

	tx := &fakeTx{}
	svc := &Service{
		Pool:            fakeBeginner{tx: tx},
		TaxBps:          taxBps,
		ShippingFlat:    flatFee,
		ShippingFreeMin: freeMin,
		Queries:         func(pgx.Tx) queryProvider { return store },
	}
	res, err := svc.Create(context.Background(), testUserID, Input{CartID: testCartID, Address: validAddress()})
	require.NoError(t, err)
	require.True(t, tx.committed)

	shipping := flatFee
	if view.Summary.Subtotal >= freeMin {
		shipping = 0
	}
	totals := pricing.ComputeTotals(view.Summary, taxBps, shipping)

	require.Equal(t, totals.Subtotal, res.Order.PricingSubtotal)
	require.Equal(t, totals.Savings, res.Order.PricingSavings)
	require.Equal(t, view.Summary.OriginalSubtotal, res.Order.PricingOriginalSubtotal)
	require.Equal(t, totals.Tax, res.Order.PricingTax)
	require.Equal(t, totals.Shipping, res.Order.PricingShipping)
	require.Equal(t, totals.Total, res.Order.PricingTotal)

	require.Len(t, res.Items, len(view.Lines))
	for i, line := range view.Lines {
		require.Equal(t, line.Item.Qty, res.Items[i].Qty)
		require.Equal(t, line.Quote.BasePrice, res.Items[i].BasePrice)
		require.Equal(t, line.Quote.UnitPrice, res.Items[i].UnitPrice)
		require.Equal(t, line.Quote.LineTotal, res.Items[i].LineTotal)
		require.Equal(t, line.Quote.Discount, res.Items[i].Discount)
		require.Equal(t, line.Quote.AppliedTierID, res.Items[i].AppliedTierID.String)
	}
	require.Equal(t, "tier-10", res.Items[0].AppliedTierID.String)

	// spot check the engine output so the identity is not vacuous:
	// 10 x 1000 at 15% off plus 2 x 450 sale price
	require.Equal(t, int64(8500+900), res.Order.PricingSubtotal)
	require.Equal(t, int64(1500), res.Order.PricingSavings)

	// checkout drained the cart inside the transaction
	require.Empty(t, store.items)
}
