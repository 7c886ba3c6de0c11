// Package sweeper finds fixtures leaked by interrupted test runs in the
// back-office database and deletes them through the admin API.
package sweeper

import (
	"context"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
)

// Deleter removes an entity from the back office.
type Deleter interface {
	Delete(ctx context.Context, e models.Entity) error
}

// Open connects to the back-office database.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("database.host is not configured")
	}
	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Sweeper lists and removes entities whose name carries the fixture
// prefix.
type Sweeper struct {
	db          *sqlx.DB
	tablePrefix string
	marker      string
	log         *zap.Logger
}

// New returns a sweeper over db. tablePrefix is the back-office table
// prefix ("lc_").
func New(db *sqlx.DB, tablePrefix string, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{db: db, tablePrefix: tablePrefix, marker: models.FixturePrefix, log: log}
}

func (s *Sweeper) pattern() string {
	return s.marker + "%"
}

// Find returns the leaked geozones, products and users.
func (s *Sweeper) Find(ctx context.Context) ([]models.Entity, error) {
	var out []models.Entity

	var geozones []*models.GeozoneEntity
	q := fmt.Sprintf("SELECT id, name FROM %sgeo_zones WHERE name LIKE ? ORDER BY id", s.tablePrefix)
	if err := s.db.SelectContext(ctx, &geozones, q, s.pattern()); err != nil {
		return nil, fmt.Errorf("failed to list geozones: %w", err)
	}
	for _, g := range geozones {
		out = append(out, g)
	}

	var products []*models.ProductEntity
	q = fmt.Sprintf("SELECT DISTINCT product_id, name FROM %sproducts_info WHERE name LIKE ? AND language_code = 'en' ORDER BY product_id", s.tablePrefix)
	if err := s.db.SelectContext(ctx, &products, q, s.pattern()); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		out = append(out, p)
	}

	var users []*models.UserEntity
	q = fmt.Sprintf("SELECT id, username FROM %susers WHERE username LIKE ? ORDER BY id", s.tablePrefix)
	if err := s.db.SelectContext(ctx, &users, q, s.pattern()); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		out = append(out, u)
	}

	s.log.Info("Leaked fixtures found",
		zap.Int("geozones", len(geozones)),
		zap.Int("products", len(products)),
		zap.Int("users", len(users)))
	return out, nil
}

// Result summarises a sweep.
type Result struct {
	Found   []models.Entity
	Deleted []models.Entity
}

// Sweep deletes every leaked entity with d. With dryRun set, entities
// are only listed.
func (s *Sweeper) Sweep(ctx context.Context, d Deleter, dryRun bool) (*Result, error) {
	found, err := s.Find(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Found: found}
	if dryRun {
		return res, nil
	}

	var errs []error
	for _, e := range found {
		if err := d.Delete(ctx, e); err != nil {
			s.log.Warn("Failed to delete leaked fixture",
				zap.String("type", string(e.EntityType())),
				zap.String("id", e.EntityID()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s %s: %w", e.EntityType(), e.EntityID(), err))
			continue
		}
		res.Deleted = append(res.Deleted, e)
	}
	return res, errors.Join(errs...)
}
