package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("product image not found")
)

// ProductInput carries the editable product fields for create/update.
type ProductInput struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Materials     []string `json:"materials"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Depth         int      `json:"depth"`
	Colors        []string `json:"colors"`
	InStock       bool     `json:"in_stock"`
	IsNew         bool     `json:"is_new"`
	IsFeatured    bool     `json:"is_featured"`
}

// Filters narrow the admin product list. Zero values mean "no filter";
// the tri-state flags accept "true"/"false".
type Filters struct {
	Search   string
	Category string
	Stock    string // "in_stock" | "out_of_stock"
	Featured string // "true" | "false"
	New      string // "true" | "false"
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InsertProduct(ctx context.Context, input ProductInput) (string, error) {
	query := `
		INSERT INTO products
			(name, price, original_price, category, description,
			 features, materials, width, height, depth, colors,
			 in_stock, is_new, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := r.db.QueryRowxContext(ctx, query,
		input.Name, input.Price, input.OriginalPrice, input.Category, input.Description,
		pq.Array(input.Features), pq.Array(input.Materials),
		nullableInt(input.Width), nullableInt(input.Height), nullableInt(input.Depth),
		pq.Array(input.Colors),
		input.InStock, input.IsNew, input.IsFeatured,
	).Scan(&id)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to insert product")
	}

	return id, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id string, input ProductInput) error {
	query := `
		UPDATE products SET
			name = $1, price = $2, original_price = $3, category = $4,
			description = $5, features = $6, materials = $7,
			width = $8, height = $9, depth = $10, colors = $11,
			in_stock = $12, is_new = $13, is_featured = $14,
			updated_at = now()
		WHERE id = $15
	`

	result, err := r.db.ExecContext(ctx, query,
		input.Name, input.Price, input.OriginalPrice, input.Category,
		input.Description, pq.Array(input.Features), pq.Array(input.Materials),
		nullableInt(input.Width), nullableInt(input.Height), nullableInt(input.Depth),
		pq.Array(input.Colors),
		input.InStock, input.IsNew, input.IsFeatured,
		id,
	)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to update product")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DeleteProduct removes the product; its image rows go with it via the
// foreign-key cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to delete product")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ListProducts returns all products (stocked or not), newest first,
// narrowed by the given filters.
func (r *Repository) ListProducts(ctx context.Context, filters Filters) ([]domain.Product, error) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE %s", arg("%"+filters.Search+"%")))
	}
	if filters.Category != "" && filters.Category != "all" {
		conditions = append(conditions, fmt.Sprintf("category = %s", arg(filters.Category)))
	}
	switch filters.Stock {
	case "in_stock":
		conditions = append(conditions, "in_stock")
	case "out_of_stock":
		conditions = append(conditions, "NOT in_stock")
	}
	switch filters.Featured {
	case "true":
		conditions = append(conditions, "is_featured")
	case "false":
		conditions = append(conditions, "NOT is_featured")
	}
	switch filters.New {
	case "true":
		conditions = append(conditions, "is_new")
	case "false":
		conditions = append(conditions, "NOT is_new")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, name, price, original_price, category, description,
			features, materials, width, height, depth, colors,
			in_stock, is_new, is_featured, created_at
		FROM products
		%s
		ORDER BY created_at DESC
	`, where)

	var rows []adminProductRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query products")
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}

	return products, nil
}

// Categories returns every category with its product count, including
// out-of-stock products (the storefront-facing counts only cover
// in-stock ones).
func (r *Repository) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM products
		GROUP BY category
		ORDER BY category
	`

	var counts []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query categories")
	}

	return counts, nil
}

// RenameCategory moves every product in the old category to the new
// name. Returns the number of products moved.
func (r *Repository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET category = $1, updated_at = now() WHERE category = $2`,
		newName, oldName,
	)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to rename category")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to read affected rows")
	}

	return affected, nil
}

// CountCategoryProducts returns the membership count of one category.
func (r *Repository) CountCategoryProducts(ctx context.Context, category string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM products WHERE category = $1`, category)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to count category products")
	}

	return count, nil
}

func (r *Repository) InsertImage(ctx context.Context, image domain.ProductImage) (string, error) {
	query := `
		INSERT INTO product_images (product_id, image_url, sort_order, is_primary)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id string
	err := r.db.QueryRowxContext(ctx, query,
		image.ProductID, image.ImageURL, image.SortOrder, image.IsPrimary,
	).Scan(&id)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to insert product image")
	}

	return id, nil
}

func (r *Repository) ListImages(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	query := `
		SELECT id, product_id, image_url, sort_order, is_primary
		FROM product_images
		WHERE product_id = $1
		ORDER BY sort_order
	`

	var images []imageRow
	if err := r.db.SelectContext(ctx, &images, query, productID); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query product images")
	}

	result := make([]domain.ProductImage, 0, len(images))
	for _, row := range images {
		result = append(result, domain.ProductImage(row))
	}

	return result, nil
}

func (r *Repository) CountImages(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM product_images WHERE product_id = $1`, productID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to count product images")
	}

	return count, nil
}

// DeleteImage removes the image row and returns its URL so the caller
// can clean up the stored file.
func (r *Repository) DeleteImage(ctx context.Context, imageID string) (string, error) {
	var imageURL string
	err := r.db.GetContext(ctx, &imageURL,
		`DELETE FROM product_images WHERE id = $1 RETURNING image_url`, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrImageNotFound
		}
		return "", pkgerrors.Wrap(err, "failed to delete product image")
	}

	return imageURL, nil
}

type adminProductRow struct {
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

func (row adminProductRow) toDomain() domain.Product {
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

type imageRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	ImageURL  string `db:"image_url"`
	SortOrder int    `db:"sort_order"`
	IsPrimary bool   `db:"is_primary"`
}

func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
