package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/AhmedZafar5533/marbo-go/app/gateway"
	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/AhmedZafar5533/marbo-go/app/store"
	"github.com/AhmedZafar5533/marbo-go/app/utils/sessions"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound = errors.New("cart item not found")

	// ErrMergeInFlight is returned when an authenticated mutation arrives
	// while the login merge has not settled yet. The caller retries once the
	// merge completes.
	ErrMergeInFlight = errors.New("cart merge in progress")
)

// Reconciler keeps the local cart cache and the server-side cart consistent.
//
// With no session every mutation is applied only to the local store. With an
// authenticated session the matching gateway operation runs first and its
// returned state overwrites ours; on gateway failure nothing changes and the
// error is reported to the caller. The anonymous cart is folded into the
// server cart exactly once per login via MergeOnLogin.
//
// Every mutation draws a sequence number before its network call and a
// response is folded in only if its number exceeds the last applied one, so
// an out-of-order response can never clobber newer state. While a login
// merge is in flight no authenticated mutation is issued at all: issuance is
// refused with ErrMergeInFlight, never raced against the merge.
type Reconciler struct {
	store   store.CartStore
	gateway gateway.CartGateway
	gate    sessions.Gate
	logger  *zap.Logger

	mu          sync.Mutex
	cart        models.Cart
	merged      bool
	lastApplied uint64

	seq     atomic.Uint64
	merging atomic.Bool
}

// NewReconciler wires the engine with its collaborators and primes the
// in-memory cart from the local store. A corrupt or missing store loads as
// an empty cart per the store contract.
func NewReconciler(ctx context.Context, cartStore store.CartStore, cartGateway gateway.CartGateway, gate sessions.Gate, logger *zap.Logger) (*Reconciler, error) {
	cart, err := cartStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local cart: %w", err)
	}
	cart.Recount()

	return &Reconciler{
		store:   cartStore,
		gateway: cartGateway,
		gate:    gate,
		logger:  logger,
		cart:    cart,
	}, nil
}

// Cart returns a copy of the current cart.
func (r *Reconciler) Cart() models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Clone()
}

// Add puts delta units of the given product into the cart. An existing line
// for the same product has its quantity incremented; a new product gets its
// own line. Delta defaults to 1.
func (r *Reconciler) Add(ctx context.Context, input models.LineItemInput, delta int) (models.Cart, error) {
	if delta < 1 {
		delta = 1
	}
	item := input.Normalize()
	item.Quantity = delta

	if !r.gate.Authenticated() {
		return r.mutateLocal(ctx, func(cart *models.Cart) error {
			if at := cart.Find(item.ProductID); at >= 0 {
				cart.Items[at].Quantity += delta
				return nil
			}
			cart.Items = append(cart.Items, item)
			return nil
		})
	}

	seq, err := r.beginMutation()
	if err != nil {
		return models.Cart{}, err
	}
	returned, err := r.gateway.Add(ctx, item)
	if err != nil {
		return r.Cart(), fmt.Errorf("failed to add item: %w", err)
	}

	return r.apply(ctx, seq, func(cart *models.Cart) {
		upsertItem(cart, returned)
	}), nil
}

// Remove deletes the line for the given product. Removing an absent product
// is a no-op for an anonymous cart and whatever the server says it is for an
// authenticated one.
func (r *Reconciler) Remove(ctx context.Context, productID string) (models.Cart, error) {
	if !r.gate.Authenticated() {
		return r.mutateLocal(ctx, func(cart *models.Cart) error {
			deleteItem(cart, productID)
			return nil
		})
	}

	seq, err := r.beginMutation()
	if err != nil {
		return models.Cart{}, err
	}
	if err := r.gateway.Remove(ctx, productID); err != nil {
		return r.Cart(), fmt.Errorf("failed to remove item: %w", err)
	}

	return r.apply(ctx, seq, func(cart *models.Cart) {
		deleteItem(cart, productID)
	}), nil
}

// UpdateQuantity sets the line quantity outright. A quantity of zero or less
// means the item is gone, so it delegates to Remove; the server never sees a
// non-positive quantity.
func (r *Reconciler) UpdateQuantity(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return r.Remove(ctx, productID)
	}

	if !r.gate.Authenticated() {
		return r.mutateLocal(ctx, func(cart *models.Cart) error {
			at := cart.Find(productID)
			if at < 0 {
				return ErrItemNotFound
			}
			cart.Items[at].Quantity = quantity
			return nil
		})
	}

	seq, err := r.beginMutation()
	if err != nil {
		return models.Cart{}, err
	}
	returned, err := r.gateway.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		return r.Cart(), fmt.Errorf("failed to update quantity: %w", err)
	}

	return r.apply(ctx, seq, func(cart *models.Cart) {
		if returned != nil {
			upsertItem(cart, *returned)
			return
		}
		if at := cart.Find(productID); at >= 0 {
			cart.Items[at].Quantity = quantity
		}
	}), nil
}

// Clear empties the cart. Authenticated carts are cleared on the server
// first; only a confirmed success empties local state.
func (r *Reconciler) Clear(ctx context.Context) (models.Cart, error) {
	if !r.gate.Authenticated() {
		return r.mutateLocal(ctx, func(cart *models.Cart) error {
			cart.Items = cart.Items[:0]
			return nil
		})
	}

	seq, err := r.beginMutation()
	if err != nil {
		return models.Cart{}, err
	}
	if err := r.gateway.Clear(ctx); err != nil {
		return r.Cart(), fmt.Errorf("failed to clear cart: %w", err)
	}

	return r.apply(ctx, seq, func(cart *models.Cart) {
		cart.Items = cart.Items[:0]
	}), nil
}

// MergeOnLogin folds the anonymous cart into the server cart at the login
// transition. With an empty local cart the server cart is adopted as-is;
// otherwise the server's sync result is canonical. The engine mutex is held
// for the whole merge and the in-flight flag refuses issuance of any other
// authenticated mutation until it settles. At most one merge happens per
// login; repeat calls return the current cart.
//
// A failed merge leaves the cart in its pre-merge state and is reported to
// the caller; there is no automatic retry.
func (r *Reconciler) MergeOnLogin(ctx context.Context) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.merged {
		return r.cart.Clone(), nil
	}

	r.merging.Store(true)
	defer r.merging.Store(false)

	var (
		merged models.Cart
		err    error
	)
	if len(r.cart.Items) == 0 {
		merged, err = r.gateway.Get(ctx)
		if errors.Is(err, gateway.ErrNotFound) {
			merged, err = models.EmptyCart(), nil
		}
	} else {
		merged, err = r.gateway.Sync(ctx, r.cart.Items)
	}
	if err != nil {
		return r.cart.Clone(), fmt.Errorf("cart merge failed: %w", err)
	}

	merged.Recount()
	r.cart = merged
	r.merged = true
	r.lastApplied = r.seq.Add(1)
	r.persistLocked(ctx)

	return r.cart.Clone(), nil
}

// ResetLocal drops the local cache at logout. The authenticated cart stays
// on the server for the next login; a fresh anonymous cart starts here.
func (r *Reconciler) ResetLocal(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cart = models.EmptyCart()
	r.merged = false
	r.lastApplied = r.seq.Add(1)

	if err := r.store.Clear(ctx); err != nil {
		r.logger.Warn("failed to clear local cart store", zap.Error(err))
	}
}

// beginMutation reserves a sequence number for an authenticated mutation.
// Issuance is refused while the login merge is in flight, so the merge
// settles before any other mutation reaches the authenticated state.
func (r *Reconciler) beginMutation() (uint64, error) {
	if r.merging.Load() {
		return 0, ErrMergeInFlight
	}
	return r.seq.Add(1), nil
}

// mutateLocal runs an anonymous mutation entirely against local state.
func (r *Reconciler) mutateLocal(ctx context.Context, mutate func(*models.Cart) error) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := mutate(&r.cart); err != nil {
		return r.cart.Clone(), err
	}
	r.cart.Recount()
	r.lastApplied = r.seq.Add(1)
	r.persistLocked(ctx)
	return r.cart.Clone(), nil
}

// apply folds a gateway response into state unless a newer response has
// already been applied.
func (r *Reconciler) apply(ctx context.Context, seq uint64, mutate func(*models.Cart)) models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq <= r.lastApplied {
		r.logger.Debug("discarding stale gateway response",
			zap.Uint64("seq", seq),
			zap.Uint64("lastApplied", r.lastApplied),
		)
		return r.cart.Clone()
	}
	r.lastApplied = seq

	mutate(&r.cart)
	r.cart.Recount()
	r.persistLocked(ctx)
	return r.cart.Clone()
}

// persistLocked writes the current cart to the local store. Persistence is
// fire-and-forget: the store is a display cache, so a failed write is logged
// and otherwise ignored.
func (r *Reconciler) persistLocked(ctx context.Context) {
	if err := r.store.Save(ctx, r.cart); err != nil {
		r.logger.Warn("failed to persist local cart", zap.Error(err))
	}
}

func upsertItem(cart *models.Cart, item models.CartLineItem) {
	if at := cart.Find(item.ProductID); at >= 0 {
		cart.Items[at] = item
		return
	}
	cart.Items = append(cart.Items, item)
}

func deleteItem(cart *models.Cart, productID string) {
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
}
