package domain

import "time"

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Product carries its variants and reviews once fully loaded; list queries
// may leave those slices empty and hydrate them separately.
type Product struct {
	ID          string    `db:"id"`
	CategoryID  string    `db:"category_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Origin      string    `db:"origin"`
	ImagesJSON  string    `db:"images_json"`
	TagsJSON    string    `db:"tags_json"`
	Active      bool      `db:"active"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
	Category    string    `db:"category_name"`
	Images      []string  `db:"-"`
	Tags        []string  `db:"-"`
	Variants    []Variant `db:"-"`
	Reviews     []Review  `db:"-"`
}

// Variant is a purchasable size of a product, e.g. "100g".
// SalePrice is nil when the variant is not on sale.
type Variant struct {
	ID        string   `db:"id"`
	ProductID string   `db:"product_id"`
	Name      string   `db:"name"`
	Price     float64  `db:"price"`
	SalePrice *float64 `db:"sale_price"`
	Stock     int      `db:"stock"`
}

type Review struct {
	ID               string  `db:"id"`
	ProductID        string  `db:"product_id"`
	Author           string  `db:"author"`
	Rating           float64 `db:"rating"`
	Comment          string  `db:"comment"`
	VerifiedPurchase bool    `db:"verified_purchase"`
	CreatedAt        string  `db:"created_at"`
}

// Coupon records are owned by the admin store; services only read and
// validate them. Usage counts are incremented on order placement.
type Coupon struct {
	ID            string    `db:"id"`
	Code          string    `db:"code"`
	DiscountType  string    `db:"discount_type"` // percentage | fixed
	DiscountValue float64   `db:"discount_value"`
	MinOrderValue float64   `db:"min_order_value"`
	MaxUses       int       `db:"max_uses"`
	UsedCount     int       `db:"used_count"`
	ValidFrom     time.Time `db:"valid_from"`
	ValidUntil    time.Time `db:"valid_until"`
	Active        bool      `db:"active"`
	CreatedAt     string    `db:"created_at"`
}

type Recipe struct {
	ID           string   `db:"id"`
	Title        string   `db:"title"`
	Description  string   `db:"description"`
	PrepTime     string   `db:"prep_time"`
	CookTime     string   `db:"cook_time"`
	Serves       int      `db:"serves"`
	ImageURL     string   `db:"image_url"`
	Ingredients  []string `db:"-"`
	Instructions []string `db:"-"`
	ProductIDs   []string `db:"-"`
}

type SubscriptionPlan struct {
	ID          string
	Name        string
	Price       float64
	Interval    string // monthly | quarterly
	Features    []string
	Savings     string
	Recommended bool
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}
