package domain

import "time"

// Dimensions holds product measurements in centimeters.
type Dimensions struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
	Depth  int `json:"depth" bson:"depth"`
}

type Product struct {
	ID            string     `json:"id" bson:"id"`
	Name          string     `json:"name" bson:"name"`
	Price         float64    `json:"price" bson:"price"`
	OriginalPrice *float64   `json:"original_price,omitempty" bson:"original_price,omitempty"`
	Category      string     `json:"category" bson:"category"`
	Description   string     `json:"description" bson:"description"`
	Images        []string   `json:"images" bson:"images"`
	Features      []string   `json:"features" bson:"features"`
	Materials     []string   `json:"materials" bson:"materials"`
	Dimensions    Dimensions `json:"dimensions" bson:"dimensions"`
	Colors        []string   `json:"colors" bson:"colors"`
	InStock       bool       `json:"in_stock" bson:"in_stock"`
	IsNew         bool       `json:"is_new" bson:"is_new"`
	IsFeatured    bool       `json:"is_featured" bson:"is_featured"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

// CategoryCount pairs a category label with its product membership count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
