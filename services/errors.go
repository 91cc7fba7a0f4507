// Package services holds the blog use cases: validation, ownership checks and
// orchestration of the repositories.
package services

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
)

// Stable machine readable error codes.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodePostNotFound    = "POST_NOT_FOUND"
	CodeCommentNotFound = "COMMENT_NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"

	CodeFetchPosts    = "FETCH_POSTS_ERROR"
	CodeFetchPost     = "FETCH_POST_ERROR"
	CodeCreatePost    = "CREATE_POST_ERROR"
	CodeUpdatePost    = "UPDATE_POST_ERROR"
	CodeDeletePost    = "DELETE_POST_ERROR"
	CodeFetchTags     = "FETCH_TAGS_ERROR"
	CodeCreateComment = "CREATE_COMMENT_ERROR"
	CodeDeleteComment = "DELETE_COMMENT_ERROR"
	CodeFetchStats    = "FETCH_STATS_ERROR"
)

// Error is the only error type the service returns to its callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Err is the underlying cause. It is logged, never shown to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode is the HTTP status paired with the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: "Unauthorized"}
}

func forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

func postNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodePostNotFound, Message: "Post not found"}
}

func commentNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodeCommentNotFound, Message: "Comment not found"}
}

// ValidationError builds a 400 error carrying a single field message.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message}
}

func internal(code, message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}
