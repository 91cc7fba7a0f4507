package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/aiblog/models"
)

// resolveAttempts bounds the insert/re-read loop of Resolve.
const resolveAttempts = 3

// TagRepository stores tags keyed by their canonical name.
type TagRepository struct {
	base
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{base{db: db}}
}

// Resolve returns the tag named name, creating it if it does not exist yet.
// name must already be canonical. Concurrent calls for the same name end up on
// the same row: the unique index rejects the second insert and the loser re-reads.
//
// The re-read after a lost insert is a locking read. Under MySQL's REPEATABLE
// READ a plain SELECT inside the caller's transaction keeps returning the
// snapshot taken before the winner committed; a locking read sees the latest
// committed row.
func (r *TagRepository) Resolve(ctx context.Context, name string) (*models.Tag, error) {
	db := r.conn(ctx)

	for attempt := 0; attempt < resolveAttempts; attempt++ {
		var tag models.Tag
		q := db
		if attempt > 0 {
			q = lockingRead(db)
		}
		err := q.Where("name = ?", name).Take(&tag).Error
		if err == nil {
			return &tag, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find tag %q: %w", name, err)
		}

		created := models.Tag{Name: name}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&created)
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create tag %q: %w", name, res.Error)
		}
		if res.Error == nil && res.RowsAffected == 1 && created.ID != 0 {
			return &created, nil
		}
		// lost the race; the next iteration reads the winner's row
	}
	return nil, fmt.Errorf("%w: %q", ErrTagNotResolved, name)
}

// lockingRead adds FOR SHARE on stores with row locks. SQLite has none and
// serializes writers anyway.
func lockingRead(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "SHARE"})
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.conn(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(&models.Tag{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return n, nil
}
