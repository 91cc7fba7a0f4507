package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/middleware"
	"github.com/cppla/aiblog/services"
	"github.com/cppla/aiblog/utils"
)

// PostController manages CRUD operations for posts and comments.
type PostController struct {
	svc *services.BlogService
}

// NewPostController creates a new PostController instance.
func NewPostController(svc *services.BlogService) *PostController {
	return &PostController{svc: svc}
}

// ListPosts lists posts newest first, optionally filtered by tag, search
// query and author.
func (p *PostController) ListPosts(ctx *gin.Context) {
	var in services.ListPostsInput
	if err := ctx.ShouldBindQuery(&in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, services.CodeValidation, "Invalid query parameters")
		return
	}
	posts, err := p.svc.ListPosts(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Posts retrieved successfully", posts)
}

// GetPost returns a single post with its tags and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, err := p.svc.GetPost(ctx.Request.Context(), ctx.Param("postId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Post retrieved successfully", post)
}

// ListMyPosts lists the posts of the authenticated caller.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	posts, err := p.svc.ListMyPosts(ctx.Request.Context(), middleware.CallerID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Posts retrieved successfully", posts)
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	callerID := middleware.CallerID(ctx)
	if callerID == "" {
		respondUnauthorized(ctx)
		return
	}
	var in services.CreatePostInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondInvalidBody(ctx)
		return
	}
	post, err := p.svc.CreatePost(ctx.Request.Context(), callerID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusCreated, "Post created successfully", post)
}

// UpdatePost applies a partial update; only the author may edit.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	callerID := middleware.CallerID(ctx)
	if callerID == "" {
		respondUnauthorized(ctx)
		return
	}
	postID := ctx.Param("postId")
	// existence and ownership are decided before the body is looked at
	if err := p.svc.AuthorizePostMutation(ctx.Request.Context(), callerID, postID); err != nil {
		respondError(ctx, err)
		return
	}
	var in services.UpdatePostInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondInvalidBody(ctx)
		return
	}
	post, err := p.svc.UpdatePost(ctx.Request.Context(), callerID, postID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Post updated successfully", post)
}

// DeletePost removes a post and everything attached to it.
func (p *PostController) DeletePost(ctx *gin.Context) {
	if err := p.svc.DeletePost(ctx.Request.Context(), middleware.CallerID(ctx), ctx.Param("postId")); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Post deleted successfully", nil)
}

// CreateComment adds a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	callerID := middleware.CallerID(ctx)
	if callerID == "" {
		respondUnauthorized(ctx)
		return
	}
	postID := ctx.Param("postId")
	if err := p.svc.EnsurePostExists(ctx.Request.Context(), postID); err != nil {
		respondError(ctx, err)
		return
	}
	var in services.CreateCommentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondInvalidBody(ctx)
		return
	}
	comment, err := p.svc.CreateComment(ctx.Request.Context(), callerID, postID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusCreated, "Comment created successfully", comment)
}

// DeleteComment removes a comment; only its author may delete it.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	if err := p.svc.DeleteComment(ctx.Request.Context(), middleware.CallerID(ctx), ctx.Param("commentId")); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Comment deleted successfully", nil)
}
