package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
)

// CommentRepository stores comments attached to posts.
type CommentRepository struct {
	base
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{base{db: db}}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.conn(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) Find(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.conn(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to load comment %s: %w", id, err)
	}
	return &c, nil
}

// ByPost returns the comments of a post, oldest first.
func (r *CommentRepository) ByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := orderComments(r.conn(ctx).Where("post_id = ?", postID)).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to load comments of post %s: %w", postID, err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(&models.Comment{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}
