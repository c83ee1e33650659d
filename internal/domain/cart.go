package domain

import "time"

// CartItem is a single cart line. Lines are identified by the pair
// (product id, selected color); an empty SelectedColor means the
// customer picked no color and compares equal to another empty color.
// The product is copied at add-time, not linked to the catalog row.
type CartItem struct {
	Product       Product `json:"product" bson:"product"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	SelectedColor string  `json:"selected_color,omitempty" bson:"selected_color"`
}

// Subtotal returns price x quantity for this line.
func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

func (i CartItem) matches(productID, selectedColor string) bool {
	return i.Product.ID == productID && i.SelectedColor == selectedColor
}

type Cart struct {
	ID        string     `json:"-" bson:"_id,omitempty"`
	SessionID string     `json:"session_id" bson:"session_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// AddItem merges the product into an existing line with the same
// (product id, selected color), bumping its quantity by one, or appends
// a new line with quantity 1. Insertion order is preserved for display.
func (c *Cart) AddItem(product Product, selectedColor string) {
	for idx := range c.Items {
		if c.Items[idx].matches(product.ID, selectedColor) {
			c.Items[idx].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		Product:       product,
		Quantity:      1,
		SelectedColor: selectedColor,
	})
}

// SetQuantity sets the matching line's quantity. A non-positive quantity
// removes the line entirely, so decrement controls double as removal.
// Returns false when no line matches.
func (c *Cart) SetQuantity(productID, selectedColor string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveLine(productID, selectedColor)
	}
	for idx := range c.Items {
		if c.Items[idx].matches(productID, selectedColor) {
			c.Items[idx].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveLine deletes the matching line. Returns false when no line matches.
func (c *Cart) RemoveLine(productID, selectedColor string) bool {
	for idx, item := range c.Items {
		if item.matches(productID, selectedColor) {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalPrice is the sum of price x quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
