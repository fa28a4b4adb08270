package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smallbiznis/inkwell/pkg/db"
	"github.com/smallbiznis/inkwell/pkg/db/option"
)

type note struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	OrgID     int64
	Title     string
	Pinned    bool
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

func newTestStore(t *testing.T) (Repository[note], *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&note{}))
	return ProvideStore[note](conn), conn
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStore(t)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, &note{ID: i, OrgID: 10, Title: "n", Pinned: true}))
	}
	require.NoError(t, repo.Create(ctx, &note{ID: 4, OrgID: 20, Title: "other"}))

	rows, err := repo.Find(ctx, &note{OrgID: 10}, option.WithSortBy("id", "desc"), option.WithLimit(2))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].ID)

	rows, err = repo.Find(ctx, &note{OrgID: 10}, option.WithIDBefore(2))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)

	require.NoError(t, repo.Update(ctx, int64(1), map[string]any{"pinned": false}))
	got, err := repo.FindOne(ctx, &note{ID: 1})
	require.NoError(t, err)
	assert.False(t, got.Pinned)

	require.NoError(t, repo.Delete(ctx, int64(2)))
	missing, err := repo.FindOne(ctx, &note{ID: 2})
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count(ctx, &note{OrgID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStoreWithTrxRollsBack(t *testing.T) {
	ctx := context.Background()
	repo, conn := newTestStore(t)

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTrx(tx).Create(ctx, &note{ID: 1, OrgID: 1}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	got, err := repo.FindOne(ctx, &note{ID: 1})
	require.NoError(t, err)
	assert.Nil(t, got)
}
