package repository

import (
	"context"
)

// Tx is the common commit/rollback surface of repository transactions
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
