package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DTure/test-lab-4/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// ErrProductNotFound is returned for an unknown product name.
var ErrProductNotFound = errors.New("product not found")

// Catalog is the SQLite-backed product catalog: name is the key, price
// and available amount are the mutable satellite fields.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(c.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (c *Catalog) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT name, price, available_amount
		FROM products
		ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var name string
		var price float64
		var amount int
		if err := rows.Scan(&name, &price, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, domain.NewProduct(name, price, amount))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (c *Catalog) GetProduct(ctx context.Context, name string) (*domain.Product, error) {
	query := `
		SELECT name, price, available_amount
		FROM products
		WHERE name = $1
	`

	var gotName string
	var price float64
	var amount int
	err := c.db.QueryRowContext(ctx, query, name).Scan(&gotName, &price, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return domain.NewProduct(gotName, price, amount), nil
}

// AddProduct inserts a product or replaces its price and stock when
// the name already exists.
func (c *Catalog) AddProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, available_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET price = $2, available_amount = $3
	`

	_, err := c.db.ExecContext(ctx, query, product.Name(), product.Price(), product.AvailableAmount())
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// UpdateStock persists the current available amount for a product,
// typically after a committed order.
func (c *Catalog) UpdateStock(ctx context.Context, name string, availableAmount int) error {
	query := `UPDATE products SET available_amount = $2 WHERE name = $1`

	result, err := c.db.ExecContext(ctx, query, name, availableAmount)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}
