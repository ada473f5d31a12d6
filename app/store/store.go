// Package store holds the device-local cart cache behind a small
// key-value persistence port so the backend can be swapped between a flat
// file, Redis, or MySQL without touching the reconciliation engine.
package store

import (
	"context"

	"github.com/AhmedZafar5533/marbo-go/app/models"
)

// CartKey is the single storage key all backends persist the cart under.
const CartKey = "cart"

// CartStore is the local persistence port. Load must tolerate missing or
// corrupt data by returning an empty cart; it never surfaces corruption as
// an error. Save is invoked after every successful mutation so a restart
// reconstructs the latest known state.
type CartStore interface {
	Load(ctx context.Context) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) error
	Clear(ctx context.Context) error
}
