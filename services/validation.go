package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 50000
	MaxCommentLength = 5000
	MaxTagsPerPost   = 5
	MaxTagLength     = 20
	MaxPageSize      = 100
)

// CreatePostInput is the body of POST /posts.
type CreatePostInput struct {
	Title   string   `json:"title" validate:"required,nonblank,max=100"`
	Content string   `json:"content" validate:"required,nonblank,max=50000"`
	Tags    []string `json:"tags" validate:"max=5,dive,tagname"`
}

// UpdatePostInput is the body of PUT /posts/:id. Nil fields are left untouched;
// a non-nil empty Tags clears the tag set.
type UpdatePostInput struct {
	Title   *string   `json:"title" validate:"omitnil,nonblank,max=100"`
	Content *string   `json:"content" validate:"omitnil,nonblank,max=50000"`
	Tags    *[]string `json:"tags" validate:"omitnil,max=5,dive,tagname"`
}

// CreateCommentInput is the body of POST /posts/:id/comments.
type CreateCommentInput struct {
	Content string `json:"content" validate:"required,nonblank,max=5000"`
}

// ListPostsInput carries the optional filters of GET /posts.
type ListPostsInput struct {
	Tags   []string `form:"tag" validate:"max=5,dive,tagname"`
	Query  string   `form:"q" validate:"max=100"`
	UserID string   `form:"userId" validate:"max=191"`
	Limit  int      `form:"limit" validate:"min=0,max=100"`
	Offset int      `form:"offset" validate:"min=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return name != "" && utf8.RuneCountInString(name) <= MaxTagLength
	})
	return v
}

// Validate checks in against its struct tags and returns a ValidationError
// describing the first failing field, or nil.
func Validate(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return ValidationError(fieldMessage(verrs[0]))
	}
	return ValidationError("invalid request payload")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isList := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "nonblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "tagname":
		return fmt.Sprintf("Each tag must be between 1 and %d characters", MaxTagLength)
	case "min":
		if isList {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isList {
			if field == "tags" || field == "tag" {
				return fmt.Sprintf("Maximum %s tags allowed", fe.Param())
			}
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
