package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessKeepsNullData(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Success(ctx, http.StatusOK, "Post deleted successfully", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Post deleted successfully","data":null}`, w.Body.String())
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Error(ctx, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, ctx.IsAborted())
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, ErrorBody{Message: "Post not found", Code: "POST_NOT_FOUND", StatusCode: 404}, body.Error)
}

func TestRecoverInternalError(t *testing.T) {
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(Logger, false, RecoverInternalError))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "plain text", Sanitize("plain text"))
	link := Sanitize(`<a href="https://example.com" onclick="evil()">x</a>`)
	assert.Contains(t, link, `href="https://example.com"`)
	assert.NotContains(t, link, "onclick")
	assert.Equal(t, "", Sanitize("<script>alert(1)</script>"))
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"plain text":                "plain text",
		`Tom & Jerry's "best" <3`:   `Tom & Jerry's "best" <3`,
		"<b>bold</b> move":          "bold move",
		"<script>alert(1)</script>": "",
		"caf\u00e9 \u00fcber":     "caf\u00e9 \u00fcber",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeText(in), "input %q", in)
		// stable when applied to its own output
		assert.Equal(t, want, SanitizeText(SanitizeText(in)), "input %q", in)
	}
}
