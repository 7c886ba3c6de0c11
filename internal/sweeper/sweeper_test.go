package sweeper

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
)

type recordingDeleter struct {
	deleted []string
	fail    map[string]error
}

func (d *recordingDeleter) Delete(_ context.Context, e models.Entity) error {
	key := string(e.EntityType()) + ":" + e.EntityID()
	if err := d.fail[key]; err != nil {
		return err
	}
	d.deleted = append(d.deleted, key)
	return nil
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func expectLeaks(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM lc_geo_zones WHERE name LIKE ?")).
		WithArgs("e2e-%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(4, "e2e-geozone-aaaa").
			AddRow(9, "e2e-geozone-bbbb"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT product_id, name FROM lc_products_info")).
		WithArgs("e2e-%").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}).
			AddRow(31, "e2e-product-cccc"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username FROM lc_users WHERE username LIKE ?")).
		WithArgs("e2e-%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(2, "e2e-user-dddd"))
}

func TestFind(t *testing.T) {
	db, mock := newMock(t)
	expectLeaks(mock)

	found, err := New(db, "lc_", zaptest.NewLogger(t)).Find(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 4)

	g, ok := found[0].(*models.GeozoneEntity)
	require.True(t, ok)
	assert.Equal(t, "4", g.ID)
	assert.Equal(t, "e2e-geozone-aaaa", g.Name)

	p, ok := found[2].(*models.ProductEntity)
	require.True(t, ok)
	assert.Equal(t, "31", p.ID)

	u, ok := found[3].(*models.UserEntity)
	require.True(t, ok)
	assert.Equal(t, "e2e-user-dddd", u.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepDeletesAndJoinsFailures(t *testing.T) {
	db, mock := newMock(t)
	expectLeaks(mock)

	boom := errors.New("boom")
	d := &recordingDeleter{fail: map[string]error{"geozone:9": boom}}

	res, err := New(db, "lc_", zaptest.NewLogger(t)).Sweep(context.Background(), d, false)
	require.ErrorIs(t, err, boom)
	assert.Len(t, res.Found, 4)
	assert.Len(t, res.Deleted, 3)
	assert.Equal(t, []string{"geozone:4", "product:31", "user:2"}, d.deleted)
}

func TestSweepDryRun(t *testing.T) {
	db, mock := newMock(t)
	expectLeaks(mock)

	d := &recordingDeleter{}
	res, err := New(db, "lc_", nil).Sweep(context.Background(), d, true)
	require.NoError(t, err)
	assert.Len(t, res.Found, 4)
	assert.Empty(t, d.deleted)
}

func TestFindQueryError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT id, name FROM lc_geo_zones").WillReturnError(errors.New("no such table"))

	_, err := New(db, "lc_", nil).Find(context.Background())
	assert.ErrorContains(t, err, "failed to list geozones")
}

func TestOpenRequiresHost(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{})
	assert.Error(t, err)
}
