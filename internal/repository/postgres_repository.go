package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Credentials hold the Postgres connection settings.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresRepository stores shipments in a shipments table. Shipping
// ids are client-side uuids; product ids are kept as a text array.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "shipments_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
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

func (r *PostgresRepository) CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, status shipping.Status, dueDate time.Time) (string, error) {
	shippingID := uuid.NewString()

	query := `INSERT INTO shipments (id, shipping_type, product_ids, order_id, status, created_date, due_date)
	          VALUES ($1, $2, $3, $4, $5, NOW(), $6)`

	_, err := r.db.ExecContext(ctx, query,
		shippingID,
		shippingType,
		pq.Array(productIDs),
		orderID,
		string(status),
		dueDate)
	if err != nil {
		return "", fmt.Errorf("insert shipment: %w", err)
	}
	return shippingID, nil
}

func (r *PostgresRepository) GetShipping(ctx context.Context, shippingID string) (*shipping.Shipment, error) {
	query := `SELECT id, shipping_type, product_ids, order_id, status, created_date, due_date
	          FROM shipments WHERE id = $1`

	var shipment shipping.Shipment
	var status string
	err := r.db.QueryRowContext(ctx, query, shippingID).Scan(
		&shipment.ShippingID,
		&shipment.ShippingType,
		pq.Array(&shipment.ProductIDs),
		&shipment.OrderID,
		&status,
		&shipment.CreatedDate,
		&shipment.DueDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shipping.ErrShippingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shipment by id: %w", err)
	}

	shipment.Status = shipping.Status(status)
	return &shipment, nil
}

func (r *PostgresRepository) UpdateShippingStatus(ctx context.Context, shippingID string, status shipping.Status) error {
	query := `UPDATE shipments SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, shippingID, string(status))
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return shipping.ErrShippingNotFound
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
