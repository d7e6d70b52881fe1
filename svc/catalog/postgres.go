package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/depselect/pkg/pg"
)

// DB is the subset of *pgxpool.Pool used by PostgresRepository.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads the catalog from the tables created by Migrations.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	listCategoriesSQL = `SELECT id, name FROM categories ORDER BY position, id`

	listSubCategoriesSQL = `SELECT id, category_id, name FROM subcategories
		WHERE category_id = $1 ORDER BY position, id`

	findCategorySQL = `SELECT id, name FROM categories WHERE id = $1`
)

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		var c Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []Category{}
	}
	return cats, nil
}

func (r *PostgresRepository) ListSubCategories(ctx context.Context, categoryID CategoryID) ([]SubCategory, error) {
	if categoryID == "" {
		return []SubCategory{}, nil
	}

	rows, err := r.db.Query(ctx, listSubCategoriesSQL, string(categoryID))
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SubCategory, error) {
		var s SubCategory
		err := row.Scan(&s.ID, &s.CategoryID, &s.Name)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	if subs == nil {
		subs = []SubCategory{}
	}
	return subs, nil
}

func (r *PostgresRepository) FindCategory(ctx context.Context, id CategoryID) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, findCategorySQL, string(id)).Scan(&c.ID, &c.Name)
	if pg.IsNoRows(err) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return Category{}, errors.Join(fmt.Errorf("find category %s", id), err)
	}
	return c, nil
}
