package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/aiblog/models"
)

// PostTagRepository maintains the many-to-many links between posts and tags.
type PostTagRepository struct {
	base
}

func NewPostTagRepository(db *gorm.DB) *PostTagRepository {
	return &PostTagRepository{base{db: db}}
}

// Replace makes tags the complete tag set of postID. Callers wanting the swap to
// be atomic run it inside WithTransaction.
func (r *PostTagRepository) Replace(ctx context.Context, postID string, tags []models.Tag) error {
	db := r.conn(ctx)
	if err := db.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags of post %s: %w", postID, err)
	}
	if len(tags) == 0 {
		return nil
	}
	links := make([]models.PostTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, models.PostTag{PostID: postID, TagID: t.ID})
	}
	if err := db.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link tags to post %s: %w", postID, err)
	}
	return nil
}

// DeleteByPost removes every link of postID.
func (r *PostTagRepository) DeleteByPost(ctx context.Context, postID string) error {
	if err := r.conn(ctx).Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return fmt.Errorf("failed to delete tag links of post %s: %w", postID, err)
	}
	return nil
}

// TagsFor returns the tag set of each requested post, keyed by post id.
// Posts without tags map to an empty slice.
func (r *PostTagRepository) TagsFor(ctx context.Context, postIDs []string) (map[string][]models.Tag, error) {
	out := make(map[string][]models.Tag, len(postIDs))
	for _, id := range postIDs {
		out[id] = []models.Tag{}
	}
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PostID string
		ID     uint
		Name   string
	}
	err := r.conn(ctx).
		Table("post_tags").
		Select("post_tags.post_id AS post_id, tags.id AS id, tags.name AS name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load post tags: %w", err)
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], models.Tag{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
