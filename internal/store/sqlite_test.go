package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedTable() *dataset.Table {
	return &dataset.Table{
		Name:           "apps.csv",
		RatingsRounded: true,
		Records: []*dataset.AppRecord{
			{
				AppID: "a", AppName: dataset.Str("Chess"), Released: dataset.Str("2020-01-01"),
				AverageUserRating: dataset.Float(4), Reviews: dataset.Int(10), Free: dataset.Bool(true),
				Type: "Free", PriceRange: "Free", ReviewCategory: "Less_than_10K",
			},
			{
				AppID: "b", AppName: dataset.Str("Tutor"), Released: dataset.Str("2021-01-01"),
				AverageUserRating: dataset.Float(3), Price: dataset.Float(0.05), Type: "Paid",
			},
		},
	}
}

func TestExport_WritesRunAndRows(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "apps.db"))
	require.NoError(t, err)
	defer db.Close()

	id1, err := db.Export(ctx, enrichedTable())
	require.NoError(t, err)
	id2, err := db.Export(ctx, enrichedTable())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	n, err := db.CountApps(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var rating int64
	var priceRange string
	require.NoError(t, db.db.QueryRowContext(ctx,
		`SELECT average_user_rating, price_range FROM apps WHERE run_id = ? AND app_id = 'b'`, id2,
	).Scan(&rating, &priceRange))
	assert.Equal(t, int64(3), rating)
	assert.Equal(t, "", priceRange)

	var rows int
	require.NoError(t, db.db.QueryRowContext(ctx, `SELECT row_count FROM runs WHERE id = ?`, id1).Scan(&rows))
	assert.Equal(t, 2, rows)
}

func TestExport_RequiresEnrichedTable(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "apps.db"))
	require.NoError(t, err)
	defer db.Close()

	tbl := enrichedTable()
	tbl.RatingsRounded = false
	_, err = db.Export(ctx, tbl)
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "apps.db")
	db, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := db.Export(ctx, enrichedTable())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.CountApps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
