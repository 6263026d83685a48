package catalog

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed snapshot of product pages already seen, so the
// browser can still show them when the backend is unreachable.
type Cache struct {
	db *sql.DB
}

// NewCache opens (or creates) the product cache database.
func NewCache(dataDir string) (*Cache, error) {
	dbPath := filepath.Join(dataDir, "products.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cache := &Cache{db: db}

	if err := cache.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cache, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		features TEXT,
		price REAL NOT NULL,
		image_url TEXT,
		category TEXT,
		in_stock INTEGER NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// PutPage stores a fetched page at its absolute offset, replacing whatever
// was cached for those positions.
func (c *Cache) PutPage(offset int, products []Product) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, p := range products {
		inStock := 0
		if p.InStock {
			inStock = 1
		}
		_, err := tx.Exec(
			`INSERT INTO products (position, id, name, features, price, image_url, category, in_stock)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(position) DO UPDATE SET
				id = excluded.id, name = excluded.name, features = excluded.features,
				price = excluded.price, image_url = excluded.image_url,
				category = excluded.category, in_stock = excluded.in_stock`,
			offset+i, p.ID, p.Name, p.Features, p.Price, p.ImageURL, p.Category, inStock,
		)
		if err != nil {
			return fmt.Errorf("failed to cache product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetPage returns the cached products for [offset, offset+limit), in order.
// An uncached range comes back empty, not as an error.
func (c *Cache) GetPage(offset, limit int) ([]Product, error) {
	rows, err := c.db.Query(
		`SELECT id, name, features, price, image_url, category, in_stock
		 FROM products WHERE position >= ? AND position < ? ORDER BY position`,
		offset, offset+limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var inStock int
		if err := rows.Scan(&p.ID, &p.Name, &p.Features, &p.Price, &p.ImageURL, &p.Category, &inStock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.InStock = inStock != 0
		products = append(products, p)
	}

	return products, rows.Err()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
