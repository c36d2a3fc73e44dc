//go:build integration

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// newPostgres starts a throwaway PostgreSQL container with the books schema applied.
func newPostgres(t *testing.T) *sql.DB {
	t.Helper()
	skipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "books",
			"POSTGRES_PASSWORD": "books",
			"POSTGRES_DB":       "books",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://books:books@%s:%s/books?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, EnsureSchema(ctx, db), "schema must be re-appliable")
	return db
}

func TestBookModel_Postgres(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	store := BookModel{DB: db}

	dune := insert(t, store, alice, "Dune", StatusWishlist)
	assert.NotEmpty(t, dune.ID)
	assert.False(t, dune.CreatedAt.IsZero())

	insert(t, store, bob, "Emma", StatusReading)
	later := insert(t, store, alice, "Ulysses", StatusCompleted)

	t.Run("list is owner scoped and newest first", func(t *testing.T) {
		books, err := store.GetAllForUser(ctx, alice, "")
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, later.ID, books[0].ID)
		assert.Equal(t, dune.ID, books[1].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		books, err := store.GetAllForUser(ctx, alice, StatusWishlist)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("update by foreign owner matches nothing", func(t *testing.T) {
		_, err := store.UpdateStatus(ctx, dune.ID, bob, StatusCompleted)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("update by owner", func(t *testing.T) {
		book, err := store.UpdateStatus(ctx, dune.ID, alice, StatusReading)
		require.NoError(t, err)
		assert.Equal(t, StatusReading, book.Status)
		assert.Equal(t, alice, book.UserID)
	})

	t.Run("malformed id is a storage error", func(t *testing.T) {
		_, err := store.UpdateStatus(ctx, "not-a-uuid", alice, StatusReading)
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Contains(t, storageErr.Error(), "uuid")
	})

	t.Run("status check constraint", func(t *testing.T) {
		err := store.Insert(ctx, &Book{Title: "x", Author: "y", Status: "abandoned", UserID: alice})
		var storageErr *StorageError
		assert.True(t, errors.As(err, &storageErr))
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete(ctx, dune.ID, bob), ErrRecordNotFound)
		require.NoError(t, store.Delete(ctx, dune.ID, alice))
		assert.ErrorIs(t, store.Delete(ctx, dune.ID, alice), ErrRecordNotFound)
	})

	require.NoError(t, store.Ping(ctx))
}
