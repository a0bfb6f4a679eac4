package sqlb_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dayplanr/identity/pkg/sqlb"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type fruit struct {
	ID    int64
	Name  string
	Price int64
}

func scanFruit(f *fruit) func(sqlb.Scanner) error {
	return func(s sqlb.Scanner) error {
		return s.Scan(&f.ID, &f.Name, &f.Price)
	}
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE fruits (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price INTEGER NOT NULL
	)`)
	require.NoError(t, err)

	ctx := context.Background()
	for _, f := range []fruit{
		{1, "apple", 100},
		{2, "banana", 50},
		{3, "cherry", 300},
	} {
		err := sqlb.Table("fruits").Insert(ctx, db, sqlb.Row{
			"id":    f.ID,
			"name":  f.Name,
			"price": f.Price,
		})
		require.NoError(t, err)
	}

	return db
}

func TestBuilder_Immutability(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	base := sqlb.Table("fruits")
	cheap := base.Lt("price", 200)
	expensive := base.Gte("price", 200)

	// Forking the base must not leak conditions between branches.
	cheapCount, err := cheap.Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 2, cheapCount)

	expensiveCount, err := expensive.Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 1, expensiveCount)

	baseCount, err := base.Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 3, baseCount)
}

func TestBuilder_FetchOne(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	t.Run("finds a single row", func(t *testing.T) {
		var f fruit
		err := sqlb.Table("fruits").
			Select("id", "name", "price").
			Eq("name", "banana").
			FetchOne(ctx, db, scanFruit(&f))
		require.NoError(t, err)
		require.EqualValues(t, 2, f.ID)
	})

	t.Run("errors when nothing matches", func(t *testing.T) {
		var f fruit
		err := sqlb.Table("fruits").
			Select("id", "name", "price").
			Eq("name", "durian").
			FetchOne(ctx, db, scanFruit(&f))
		require.ErrorIs(t, err, sqlb.ErrNoRows)
	})
}

func TestBuilder_FetchMaybe(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	var f fruit
	found, err := sqlb.Table("fruits").
		Select("id", "name", "price").
		Eq("name", "durian").
		FetchMaybe(ctx, db, scanFruit(&f))
	require.NoError(t, err)
	require.False(t, found)

	found, err = sqlb.Table("fruits").
		Select("id", "name", "price").
		Eq("name", "apple").
		FetchMaybe(ctx, db, scanFruit(&f))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "apple", f.Name)
}

func TestBuilder_FetchAll_OrderAndLimit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	var names []string
	err := sqlb.Table("fruits").
		Select("id", "name", "price").
		OrderBy("price", true).
		Limit(2).
		FetchAll(ctx, db, func(s sqlb.Scanner) error {
			var f fruit
			if err := s.Scan(&f.ID, &f.Name, &f.Price); err != nil {
				return err
			}
			names = append(names, f.Name)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, []string{"cherry", "apple"}, names)
}

func TestBuilder_In(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	count, err := sqlb.Table("fruits").In("name", "apple", "cherry").Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	// Empty IN matches nothing rather than erroring.
	count, err = sqlb.Table("fruits").In("name").Count(ctx, db)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestBuilder_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	changed, err := sqlb.Table("fruits").
		Eq("name", "banana").
		Update(ctx, db, sqlb.Row{"price": 75})
	require.NoError(t, err)
	require.EqualValues(t, 1, changed)

	var f fruit
	err = sqlb.Table("fruits").
		Select("id", "name", "price").
		Eq("name", "banana").
		FetchOne(ctx, db, scanFruit(&f))
	require.NoError(t, err)
	require.EqualValues(t, 75, f.Price)

	deleted, err := sqlb.Table("fruits").Lt("price", 200).Delete(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	remaining, err := sqlb.Table("fruits").Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 1, remaining)
}

func TestBuilder_EqNil(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`ALTER TABLE fruits ADD COLUMN origin TEXT`)
	require.NoError(t, err)

	count, err := sqlb.Table("fruits").Eq("origin", nil).Count(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}
