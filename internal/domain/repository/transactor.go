package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles bound to a request context.
//
// WithinTransaction begins a transaction, passes it to fn and commits when fn
// returns nil. Any error or panic from fn rolls every write made through tx
// back, so multi-row writes are all-or-nothing.
type Transactor interface {
	Conn(ctx context.Context) *gorm.DB
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
