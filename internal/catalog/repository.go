package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Reader is the read-only catalog surface the storefront consumes.
type Reader interface {
	ListInStock(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Connect opens the Postgres pool behind both the catalog and admin
// repositories.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to postgres")
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return db, nil
}

// migrationSourceURL accepts both a bare directory path and a full
// source URL, so MIGRATIONS_PATH works either way.
func migrationSourceURL(migrationsPath string) string {
	if strings.Contains(migrationsPath, "://") {
		return migrationsPath
	}
	return "file://" + migrationsPath
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := postgres.WithInstance(r.db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationSourceURL(migrationsPath),
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

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Price         float64         `db:"price"`
	OriginalPrice sql.NullFloat64 `db:"original_price"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	Features      pq.StringArray  `db:"features"`
	Materials     pq.StringArray  `db:"materials"`
	Width         sql.NullInt64   `db:"width"`
	Height        sql.NullInt64   `db:"height"`
	Depth         sql.NullInt64   `db:"depth"`
	Colors        pq.StringArray  `db:"colors"`
	InStock       bool            `db:"in_stock"`
	IsNew         bool            `db:"is_new"`
	IsFeatured    bool            `db:"is_featured"`
	CreatedAt     sql.NullTime    `db:"created_at"`
}

func (row productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Category:    row.Category,
		Description: row.Description,
		Features:    row.Features,
		Materials:   row.Materials,
		Dimensions: domain.Dimensions{
			Width:  int(row.Width.Int64),
			Height: int(row.Height.Int64),
			Depth:  int(row.Depth.Int64),
		},
		Colors:     row.Colors,
		InStock:    row.InStock,
		IsNew:      row.IsNew,
		IsFeatured: row.IsFeatured,
		CreatedAt:  row.CreatedAt.Time,
	}
	if row.OriginalPrice.Valid {
		v := row.OriginalPrice.Float64
		p.OriginalPrice = &v
	}
	return p
}

const productColumns = `id, name, price, original_price, category, description,
		features, materials, width, height, depth, colors,
		in_stock, is_new, is_featured, created_at`

// ListInStock returns every in-stock product, newest first, with its
// image URLs in sort order.
func (r *Repository) ListInStock(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE in_stock
		ORDER BY created_at DESC
	`, productColumns)

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query products")
	}

	products := make([]domain.Product, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
		ids = append(ids, row.ID)
	}

	images, err := r.imagesByProduct(ctx, ids)
	if err != nil {
		return nil, err
	}
	for idx := range products {
		products[idx].Images = images[products[idx].ID]
	}

	return products, nil
}

// GetProduct returns one product by id with its images.
func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var row productRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to query product")
	}

	product := row.toDomain()

	images, err := r.imagesByProduct(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	product.Images = images[id]

	return &product, nil
}

// CategoryCounts returns in-stock membership counts per category.
func (r *Repository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM products
		WHERE in_stock
		GROUP BY category
		ORDER BY category
	`

	var counts []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query category counts")
	}

	return counts, nil
}

func (r *Repository) imagesByProduct(ctx context.Context, productIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT product_id, image_url
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query product images")
	}
	defer rows.Close()

	for rows.Next() {
		var productID, imageURL string
		if err := rows.Scan(&productID, &imageURL); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to scan product image")
		}
		result[productID] = append(result[productID], imageURL)
	}

	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "image row iteration error")
	}

	return result, nil
}
