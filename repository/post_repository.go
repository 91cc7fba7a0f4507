package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/aiblog/models"
)

// PostFilter narrows List. Zero values disable the corresponding condition.
type PostFilter struct {
	UserID string
	// Tags holds canonical names; a post must carry all of them.
	Tags   []string
	Search string
	Limit  int
	Offset int
}

// PostRepository stores posts and assembles their tag and comment views.
type PostRepository struct {
	base
	links *PostTagRepository
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{base: base{db: db}, links: NewPostTagRepository(db)}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.conn(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Find loads a post without its relations.
func (r *PostRepository) Find(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.conn(ctx).Where("id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post %s: %w", id, err)
	}
	return &post, nil
}

// Get loads a post together with its current tags and its comments (oldest first).
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.conn(ctx).
		Preload("Comments", orderComments).
		Where("id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post %s: %w", id, err)
	}
	posts := []models.Post{post}
	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// List returns posts newest first, each with tags and comments.
func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	q := r.conn(ctx).Model(&models.Post{}).Preload("Comments", orderComments)

	if f.UserID != "" {
		q = q.Where("posts.user_id = ?", f.UserID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?", like, like)
	}
	if len(f.Tags) > 0 {
		sub := r.conn(ctx).
			Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", f.Tags).
			Group("post_tags.post_id").
			Having("COUNT(DISTINCT tags.id) = ?", len(f.Tags))
		q = q.Where("posts.id IN (?)", sub)
	}

	q = q.Order("posts.created_at DESC").Order("posts.id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update persists the given columns of post. updated_at is always refreshed.
func (r *PostRepository) Update(ctx context.Context, post *models.Post, title, content *string) error {
	values := map[string]interface{}{"updated_at": time.Now()}
	if title != nil {
		values["title"] = *title
	}
	if content != nil {
		values["content"] = *content
	}
	if err := r.conn(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(values).Error; err != nil {
		return fmt.Errorf("failed to update post %s: %w", post.ID, err)
	}
	post.UpdatedAt = values["updated_at"].(time.Time)
	if title != nil {
		post.Title = *title
	}
	if content != nil {
		post.Content = *content
	}
	return nil
}

// Delete removes a post. Its tag links and comments are removed first inside the
// same transaction, so nothing is left behind even where the store does not
// enforce the ON DELETE CASCADE foreign keys.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		db := r.conn(ctx)
		if err := r.links.DeleteByPost(ctx, id); err != nil {
			return err
		}
		if err := db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
		}
		res := db.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete post %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(&models.Post{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (r *PostRepository) attachTags(ctx context.Context, posts []models.Post) error {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	tags, err := r.links.TagsFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
	}
	return nil
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at ASC").Order("comments.id ASC")
}
