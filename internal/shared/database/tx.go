package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Tx is the unit of work threaded through every store call. Row locks taken
// inside a Tx are held until Commit or Rollback.
type Tx interface {
	Commit() error
	Rollback() error
}

// TxManager begins units of work. The booking engine depends on this interface
// rather than on a concrete database handle, so tests can substitute an
// in-memory implementation.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// GormTx is the PostgreSQL-backed unit of work. Repositories unwrap it to
// reach the transactional gorm handle.
type GormTx struct {
	db        *gorm.DB
	completed bool
}

func (t *GormTx) DB() *gorm.DB {
	return t.db
}

func (t *GormTx) Commit() error {
	if t.completed {
		return nil
	}
	t.completed = true
	return t.db.Commit().Error
}

// Rollback is a no-op after Commit so it can sit in a defer on every exit path.
func (t *GormTx) Rollback() error {
	if t.completed {
		return nil
	}
	t.completed = true
	return t.db.Rollback().Error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager on top of a gorm connection.
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Begin(ctx context.Context) (Tx, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &GormTx{db: tx}, nil
}

// UnwrapGorm extracts the gorm handle from a Tx created by NewTxManager.
func UnwrapGorm(tx Tx) (*gorm.DB, error) {
	gtx, ok := tx.(*GormTx)
	if !ok {
		return nil, errors.New("tx is not a gorm transaction")
	}
	return gtx.DB(), nil
}
