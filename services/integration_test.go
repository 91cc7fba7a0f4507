package services_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cppla/aiblog/config"
	"github.com/cppla/aiblog/services"
)

// startContainer starts req and returns the host and mapped port of exposed.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, exposed string) (string, string) {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, nat.Port(exposed))
	require.NoError(t, err)
	return host, port.Port()
}

// TestPostgresBlogFlow runs the service against a real PostgreSQL started in a
// container. Enable with BLOG_IT_POSTGRES=1.
func TestPostgresBlogFlow(t *testing.T) {
	if os.Getenv("BLOG_IT_POSTGRES") != "1" {
		t.Skip("set BLOG_IT_POSTGRES=1 to run the PostgreSQL integration test")
	}
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "blog",
			"POSTGRES_PASSWORD": "blog",
			"POSTGRES_DB":       "blog",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}, "5432")

	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:   "postgres",
		DBHost:     host,
		DBPort:     port,
		DBUser:     "blog",
		DBPassword: "blog",
		DBName:     "blog",
		DBSSLMode:  "disable",
		LogLevel:   "error",
	})
	require.NoError(t, err)
	runBlogFlow(t, services.NewBlogService(db))
}

// TestMySQLBlogFlow runs the service against MySQL 8, whose default
// REPEATABLE READ isolation is what the tag re-read has to cope with.
// Enable with BLOG_IT_MYSQL=1.
func TestMySQLBlogFlow(t *testing.T) {
	if os.Getenv("BLOG_IT_MYSQL") != "1" {
		t.Skip("set BLOG_IT_MYSQL=1 to run the MySQL integration test")
	}
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_DATABASE":      "blog",
			"MYSQL_USER":          "blog",
			"MYSQL_PASSWORD":      "blog",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("port: 3306  MySQL Community Server"),
			wait.ForListeningPort("3306/tcp"),
		).WithDeadline(3 * time.Minute),
	}, "3306")

	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:   "mysql",
		DBHost:     host,
		DBPort:     port,
		DBUser:     "blog",
		DBPassword: "blog",
		DBName:     "blog",
		LogLevel:   "error",
	})
	require.NoError(t, err)
	svc := services.NewBlogService(db)
	runBlogFlow(t, svc)

	t.Run("escaped content larger than TEXT", func(t *testing.T) {
		ctx := context.Background()
		post, err := svc.CreatePost(ctx, userA, services.CreatePostInput{
			Title: "big", Content: strings.Repeat("<", services.MaxContentLength),
		})
		require.NoError(t, err)
		assert.Greater(t, len(post.Content), 65535)

		got, err := svc.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Content, got.Content)
	})
}

// runBlogFlow exercises the store-dependent paths of svc: cascading deletes,
// tag replacement and concurrent get-or-create of one tag.
func runBlogFlow(t *testing.T, svc *services.BlogService) {
	ctx := context.Background()

	t.Run("create update delete", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, userA, services.CreatePostInput{
			Title: "Hello", Content: "World", Tags: []string{"go", "GO"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, tagNames(post.Tags))

		tags := []string{"sql"}
		updated, err := svc.UpdatePost(ctx, userA, post.ID, services.UpdatePostInput{Tags: &tags})
		require.NoError(t, err)
		assert.Equal(t, []string{"sql"}, tagNames(updated.Tags))

		_, err = svc.CreateComment(ctx, userB, post.ID, services.CreateCommentInput{Content: "hi"})
		require.NoError(t, err)
		require.NoError(t, svc.DeletePost(ctx, userA, post.ID))

		_, err = svc.GetPost(ctx, post.ID)
		requireKind(t, err, services.KindNotFound, services.CodePostNotFound)
	})

	t.Run("concurrent tag creation", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make([]uint, 8)
		errs := make([]error, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				post, err := svc.CreatePost(ctx, userA, services.CreatePostInput{
					Title: "race", Content: "body", Tags: []string{" Race ", "shared"},
				})
				errs[i] = err
				if err == nil && len(post.Tags) == 2 {
					ids[i] = post.Tags[0].ID
				}
			}(i)
		}
		wg.Wait()
		for i := range ids {
			require.NoError(t, errs[i])
			assert.NotZero(t, ids[i])
			assert.Equal(t, ids[0], ids[i])
		}
	})
}
