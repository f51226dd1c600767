package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	Slug     string `json:"slug" yaml:"slug"`
	Name     string `json:"name" yaml:"name"`
	ImageURL string `json:"image_url" yaml:"image_url"`
}

// Categories is the fixed navigation set shown by the category buttons.
var Categories = []Category{
	{Slug: "suits", Name: "Suits", ImageURL: "/static/images/suits.webp"},
	{Slug: "shirts", Name: "Shirts", ImageURL: "/static/images/shirts.webp"},
	{Slug: "neckwear", Name: "Neck wear & Accessories", ImageURL: "/static/images/neckwear.webp"},
	{Slug: "shoes", Name: "Shoes", ImageURL: "/static/images/shoes1.webp"},
}

// IsCategory reports whether slug names one of the fixed categories.
func IsCategory(slug string) bool {
	for _, c := range Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

type Product struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	Category           string          `json:"category"` // category slug
	ImageURL           string          `json:"image_url"`
	AverageRating      decimal.Decimal `json:"average_rating"`
	DiscountPercentage int             `json:"discount_percentage"` // 0 means not discounted
	IsNew              bool            `json:"is_new"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Suggestion is the trimmed product view shown in the search dropdown.
type Suggestion struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type DiscountedProduct struct {
	Name               string `json:"name"`
	Image              string `json:"image"`
	DiscountPercentage int    `json:"discount_percentage"`
}

var PaymentMethods = map[string]string{
	"visa":   "Visa",
	"mpesa":  "M-Pesa",
	"paypal": "PayPal",
}

type Customer struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Password      string    `json:"-"` // bcrypt hash
	Location      string    `json:"location"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}
