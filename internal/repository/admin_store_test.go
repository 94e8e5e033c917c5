package repository

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStore_SaveAndFind(t *testing.T) {
	stores := map[string]func(t *testing.T) AdminStore{
		"memory": func(t *testing.T) AdminStore { return NewMemoryAdminStore() },
		"gorm":   func(t *testing.T) AdminStore { return NewGormAdminStore(openTestDB(t)) },
	}
	for name, factory := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			_, err := store.FindAdminByEmail(ctx, "staff@campus.edu")
			assert.ErrorIs(t, err, ErrNotFound)

			first := &models.AdminUser{Email: " Staff@Campus.edu ", PasswordHash: "hash-1"}
			require.NoError(t, store.SaveAdmin(ctx, first))

			got, err := store.FindAdminByEmail(ctx, "staff@campus.edu")
			require.NoError(t, err)
			assert.Equal(t, "hash-1", got.PasswordHash)
			assert.Equal(t, first.ID, got.ID)

			second := &models.AdminUser{Email: "staff@campus.edu", PasswordHash: "hash-2"}
			require.NoError(t, store.SaveAdmin(ctx, second))
			assert.Equal(t, first.ID, second.ID)

			got, err = store.FindAdminByEmail(ctx, "STAFF@campus.edu")
			require.NoError(t, err)
			assert.Equal(t, "hash-2", got.PasswordHash)
		})
	}
}
