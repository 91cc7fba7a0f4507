package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/repository"
	"github.com/cppla/aiblog/utils"
)

// BlogService implements post, tag and comment operations on top of the
// repositories. Every exported method returns either nil or a *Error.
type BlogService struct {
	db       *gorm.DB
	posts    *repository.PostRepository
	links    *repository.PostTagRepository
	tags     *repository.TagRepository
	comments *repository.CommentRepository
	sanitize bool
}

// Option customises a BlogService.
type Option func(*BlogService)

// WithSanitizer toggles HTML sanitizing of stored titles and bodies.
func WithSanitizer(enabled bool) Option {
	return func(s *BlogService) { s.sanitize = enabled }
}

// NewBlogService creates a new BlogService instance.
func NewBlogService(db *gorm.DB, opts ...Option) *BlogService {
	s := &BlogService{
		db:       db,
		posts:    repository.NewPostRepository(db),
		links:    repository.NewPostTagRepository(db),
		tags:     repository.NewTagRepository(db),
		comments: repository.NewCommentRepository(db),
		sanitize: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats holds aggregate counters.
type Stats struct {
	PostCount    int64 `json:"postCount"`
	CommentCount int64 `json:"commentCount"`
	TagCount     int64 `json:"tagCount"`
}

// ListPosts returns posts newest first with tags and comments.
func (s *BlogService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, repository.PostFilter{
		UserID: strings.TrimSpace(in.UserID),
		Tags:   canonicalTags(in.Tags),
		Search: in.Query,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, internal(CodeFetchPosts, "Failed to fetch posts", err)
	}
	return posts, nil
}

// ListMyPosts returns the posts owned by callerID.
func (s *BlogService) ListMyPosts(ctx context.Context, callerID string) ([]models.Post, error) {
	if callerID == "" {
		return nil, unauthorized()
	}
	posts, err := s.posts.List(ctx, repository.PostFilter{UserID: callerID})
	if err != nil {
		return nil, internal(CodeFetchPosts, "Failed to fetch posts", err)
	}
	return posts, nil
}

// GetPost returns one post with tags and comments.
func (s *BlogService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, postNotFound()
		}
		return nil, internal(CodeFetchPost, "Failed to fetch post", err)
	}
	return post, nil
}

// CreatePost stores a new post owned by callerID and links its tags, creating
// missing tags on the way. Tag names that normalize to the same canonical name
// are linked once.
func (s *BlogService) CreatePost(ctx context.Context, callerID string, in CreatePostInput) (*models.Post, error) {
	if callerID == "" {
		return nil, unauthorized()
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	title, err := s.clean("title", in.Title, false, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	content, err := s.clean("content", in.Content, true, MaxContentLength)
	if err != nil {
		return nil, err
	}

	post := &models.Post{UserID: callerID, Title: title, Content: content}
	err = repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.posts.Create(ctx, post); err != nil {
			return err
		}
		tags, err := s.resolveTags(ctx, in.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return s.links.Replace(ctx, post.ID, tags)
	})
	if err != nil {
		return nil, internal(CodeCreatePost, "Failed to create post", err)
	}
	post.Comments = []models.Comment{}
	return post, nil
}

// AuthorizePostMutation reports whether callerID may update or delete postID,
// using the same checks and order as UpdatePost and DeletePost. Handlers call
// it before reading the request body.
func (s *BlogService) AuthorizePostMutation(ctx context.Context, callerID, postID string) error {
	if callerID == "" {
		return unauthorized()
	}
	post, err := s.posts.Find(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return postNotFound()
		}
		return internal(CodeUpdatePost, "Failed to update post", err)
	}
	if !Allow(callerID, post.UserID) {
		return forbidden("Forbidden: You can only edit your own posts")
	}
	return nil
}

// EnsurePostExists returns a not-found error when postID does not exist.
func (s *BlogService) EnsurePostExists(ctx context.Context, postID string) error {
	if _, err := s.posts.Find(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return postNotFound()
		}
		return internal(CodeFetchPost, "Failed to fetch post", err)
	}
	return nil
}

// UpdatePost applies the supplied fields of in to the post. Only the owner may
// update. When in.Tags is non-nil the tag set is replaced by it as a whole.
func (s *BlogService) UpdatePost(ctx context.Context, callerID, postID string, in UpdatePostInput) (*models.Post, error) {
	if callerID == "" {
		return nil, unauthorized()
	}
	post, err := s.posts.Find(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, postNotFound()
		}
		return nil, internal(CodeUpdatePost, "Failed to update post", err)
	}
	if !Allow(callerID, post.UserID) {
		return nil, forbidden("Forbidden: You can only edit your own posts")
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	var title, content *string
	if in.Title != nil {
		v, err := s.clean("title", *in.Title, false, MaxTitleLength)
		if err != nil {
			return nil, err
		}
		title = &v
	}
	if in.Content != nil {
		v, err := s.clean("content", *in.Content, true, MaxContentLength)
		if err != nil {
			return nil, err
		}
		content = &v
	}

	var updated *models.Post
	err = repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.posts.Update(ctx, post, title, content); err != nil {
			return err
		}
		if in.Tags != nil {
			tags, err := s.resolveTags(ctx, *in.Tags)
			if err != nil {
				return err
			}
			if err := s.links.Replace(ctx, post.ID, tags); err != nil {
				return err
			}
		}
		updated, err = s.posts.Get(ctx, post.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, postNotFound()
		}
		return nil, internal(CodeUpdatePost, "Failed to update post", err)
	}
	return updated, nil
}

// DeletePost removes a post owned by callerID together with its comments and
// tag links. Tags themselves are kept.
func (s *BlogService) DeletePost(ctx context.Context, callerID, postID string) error {
	if callerID == "" {
		return unauthorized()
	}
	post, err := s.posts.Find(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return postNotFound()
		}
		return internal(CodeDeletePost, "Failed to delete post", err)
	}
	if !Allow(callerID, post.UserID) {
		return forbidden("Forbidden: You can only delete your own posts")
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return postNotFound()
		}
		return internal(CodeDeletePost, "Failed to delete post", err)
	}
	return nil
}

// ListTags returns every tag ordered by name.
func (s *BlogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, internal(CodeFetchTags, "Failed to fetch tags", err)
	}
	return tags, nil
}

// CreateComment adds a comment by callerID to an existing post.
func (s *BlogService) CreateComment(ctx context.Context, callerID, postID string, in CreateCommentInput) (*models.Comment, error) {
	if callerID == "" {
		return nil, unauthorized()
	}
	if _, err := s.posts.Find(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, postNotFound()
		}
		return nil, internal(CodeCreateComment, "Failed to create comment", err)
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	content, err := s.clean("content", in.Content, false, MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: callerID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, internal(CodeCreateComment, "Failed to create comment", err)
	}
	return comment, nil
}

// DeleteComment removes a comment owned by callerID.
func (s *BlogService) DeleteComment(ctx context.Context, callerID, commentID string) error {
	if callerID == "" {
		return unauthorized()
	}
	comment, err := s.comments.Find(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return commentNotFound()
		}
		return internal(CodeDeleteComment, "Failed to delete comment", err)
	}
	if !Allow(callerID, comment.UserID) {
		return forbidden("Forbidden: You can only delete your own comments")
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return commentNotFound()
		}
		return internal(CodeDeleteComment, "Failed to delete comment", err)
	}
	return nil
}

// Stats returns post, comment and tag counts.
func (s *BlogService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.PostCount, err = s.posts.Count(ctx); err != nil {
		return nil, internal(CodeFetchStats, "Failed to fetch stats", err)
	}
	if st.CommentCount, err = s.comments.Count(ctx); err != nil {
		return nil, internal(CodeFetchStats, "Failed to fetch stats", err)
	}
	if st.TagCount, err = s.tags.Count(ctx); err != nil {
		return nil, internal(CodeFetchStats, "Failed to fetch stats", err)
	}
	return &st, nil
}

// resolveTags get-or-creates each distinct canonical name. The result is
// ordered by name, the order every read path returns tags in.
func (s *BlogService) resolveTags(ctx context.Context, raw []string) ([]models.Tag, error) {
	names := canonicalTags(raw)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// clean sanitizes user supplied text and rejects values that end up empty.
// Titles and comments are plain text; post content is HTML. Plain text is
// re-checked against max after sanitizing. HTML may grow through entity
// escaping, which the unbounded content column absorbs.
func (s *BlogService) clean(field, value string, rich bool, max int) (string, error) {
	if !s.sanitize {
		return value, nil
	}
	var out string
	if rich {
		out = utils.Sanitize(value)
	} else {
		out = utils.SanitizeText(value)
	}
	if strings.TrimSpace(out) == "" {
		return "", ValidationError(field + " cannot be empty")
	}
	if !rich && utf8.RuneCountInString(out) > max {
		return "", ValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return out, nil
}
