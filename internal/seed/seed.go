// Package seed loads a catalog and demo customers from a YAML file.
package seed

import (
	"context"
	"io"
	"log/slog"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/andrewindechemain/modern-man/internal/store"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type Product struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Category    string          `yaml:"category"`
	Image       string          `yaml:"image"`
	Rating      decimal.Decimal `yaml:"rating"`
	Discount    int             `yaml:"discount"`
	New         bool            `yaml:"new"`
}

type Customer struct {
	Username      string `yaml:"username"`
	Name          string `yaml:"name"`
	Email         string `yaml:"email"`
	Password      string `yaml:"password"`
	Location      string `yaml:"location"`
	City          string `yaml:"city"`
	Country       string `yaml:"country"`
	PaymentMethod string `yaml:"payment_method"`
}

// Favorite links a customer to a product, both by name.
type Favorite struct {
	Username string `yaml:"username"`
	Product  string `yaml:"product"`
}

type File struct {
	Products  []Product  `yaml:"products"`
	Customers []Customer `yaml:"customers"`
	Favorites []Favorite `yaml:"favorites"`
}

// Result counts what Apply inserted.
type Result struct {
	Products  int
	Customers int
	Favorites int
}

func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, errors.Wrap(err, "decode seed file")
	}
	return &f, nil
}

// Apply inserts everything in f that is not there yet, so running it twice
// is harmless.
func Apply(ctx context.Context, st *store.Store, f *File) (Result, error) {
	var res Result

	for _, p := range f.Products {
		_, err := st.GetProductByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, err
		}
		_, err = st.CreateProduct(ctx, &models.Product{
			Name:               p.Name,
			Description:        p.Description,
			Price:              p.Price,
			Category:           p.Category,
			ImageURL:           p.Image,
			AverageRating:      p.Rating,
			DiscountPercentage: p.Discount,
			IsNew:              p.New,
		})
		if err != nil {
			return res, errors.Wrapf(err, "product %q", p.Name)
		}
		res.Products++
	}

	for _, c := range f.Customers {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return res, errors.Wrap(err, "hash password")
		}
		_, err = st.CreateCustomer(ctx, &models.Customer{
			Username:      c.Username,
			Name:          c.Name,
			Email:         c.Email,
			Password:      string(hash),
			Location:      c.Location,
			City:          c.City,
			Country:       c.Country,
			PaymentMethod: c.PaymentMethod,
		})
		if errors.Is(err, store.ErrDuplicateCustomer) {
			slog.Debug("Customer already seeded", "username", c.Username)
			continue
		}
		if err != nil {
			return res, errors.Wrapf(err, "customer %q", c.Username)
		}
		res.Customers++
	}

	for _, fav := range f.Favorites {
		customer, err := st.GetCustomerByUsername(ctx, fav.Username)
		if err != nil {
			return res, err
		}
		if customer == nil {
			return res, errors.Errorf("favorite for unknown customer %q", fav.Username)
		}
		product, err := st.GetProductByName(ctx, fav.Product)
		if err != nil {
			return res, errors.Wrapf(err, "favorite product %q", fav.Product)
		}
		if err := st.AddFavorite(ctx, customer.ID, product.ID); err != nil {
			return res, err
		}
		res.Favorites++
	}

	return res, nil
}
