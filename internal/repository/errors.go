// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without parsing driver
// error strings.
package repository

import "errors"

// ErrCustomerExists is returned when an insert collides with an existing
// account name or mail address. Handlers translate this into HTTP 409.
var ErrCustomerExists = errors.New("customer already exists")

// ErrCustomerNotFound is returned when a lookup by identifier, id or
// refresh token matches no row.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrProductNotFound is returned when a product id matches no row (or, for
// soft-delete operations, no row in the expected active state).
var ErrProductNotFound = errors.New("product not found")

// ErrSKUExists is returned when creating a product whose variant SKU is
// already taken. Handlers translate this into HTTP 409.
var ErrSKUExists = errors.New("sku already exists")
