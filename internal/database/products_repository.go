package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/matthieukhl/storefront/internal/models"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

type ProductsRepository struct {
	db *DB
}

func NewProductsRepository(db *DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// GetAll returns every product with its color and size rows.
func (r *ProductsRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), category, price, COALESCE(image, ''), total_stock, created_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Image, &p.TotalStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	for i := range products {
		if err := r.loadVariants(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// GetByID returns one product with its variants, or ErrProductNotFound.
func (r *ProductsRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), category, price, COALESCE(image, ''), total_stock, created_at
		FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Image, &p.TotalStock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to query product %s: %w", id, err)
	}
	if err := r.loadVariants(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product and its variant rows in one transaction and
// returns the assigned id.
func (r *ProductsRepository) Create(ctx context.Context, p *models.Product) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, description, category, price, image, total_stock)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.Image, p.TotalStock)
	if err != nil {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}
	if err := insertVariants(ctx, tx, p); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit product: %w", err)
	}
	return p.ID, nil
}

// Update replaces the product row and rewrites its variant rows.
func (r *ProductsRepository) Update(ctx context.Context, id string, p *models.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, category = ?, price = ?, image = ?, total_stock = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Category, p.Price, p.Image, p.TotalStock, id)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// The UPDATE also matches zero rows when nothing changed, so
		// double-check existence before reporting not found.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to check product %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_colors WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear colors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_sizes WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear sizes: %w", err)
	}
	p.ID = id
	if err := insertVariants(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}
	return nil
}

// Delete removes the product; variant rows cascade.
func (r *ProductsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) loadVariants(ctx context.Context, p *models.Product) error {
	p.Colors = []models.ColorVariant{}
	p.Sizes = []models.SizeVariant{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, code, stock FROM product_colors
		WHERE product_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query colors for %s: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.ColorVariant
		if err := rows.Scan(&c.Name, &c.Code, &c.Stock); err != nil {
			return fmt.Errorf("failed to scan color: %w", err)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate colors: %w", err)
	}

	sizeRows, err := r.db.QueryContext(ctx, `
		SELECT label, stock FROM product_sizes
		WHERE product_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query sizes for %s: %w", p.ID, err)
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var s models.SizeVariant
		if err := sizeRows.Scan(&s.Label, &s.Stock); err != nil {
			return fmt.Errorf("failed to scan size: %w", err)
		}
		p.Sizes = append(p.Sizes, s)
	}
	if err := sizeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate sizes: %w", err)
	}
	return nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, p *models.Product) error {
	for i, c := range p.Colors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_colors (product_id, name, code, stock, position)
			VALUES (?, ?, ?, ?, ?)`, p.ID, c.Name, c.Code, c.Stock, i); err != nil {
			return fmt.Errorf("failed to insert color %s: %w", c.Name, err)
		}
	}
	for i, s := range p.Sizes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_sizes (product_id, label, stock, position)
			VALUES (?, ?, ?, ?)`, p.ID, s.Label, s.Stock, i); err != nil {
			return fmt.Errorf("failed to insert size %s: %w", s.Label, err)
		}
	}
	return nil
}
