// Package repository provides the gorm-backed data access layer for posts, tags and comments.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type txContextKey struct{}

// TxContextKey is the context key under which an open transaction is carried.
var TxContextKey = txContextKey{}

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrTagNotResolved  = errors.New("tag could not be resolved")
)

type base struct {
	db *gorm.DB
}

// conn returns the transaction stored in ctx, or the root handle.
func (b base) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return b.db.WithContext(ctx)
}

// WithTransaction runs fn inside a database transaction. Repositories called with
// the context passed to fn share that transaction. Nested calls reuse the outer one.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) (err error) {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", r)
		}
	}()

	if err := fn(context.WithValue(ctx, TxContextKey, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
