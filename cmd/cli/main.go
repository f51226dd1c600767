package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andrewindechemain/modern-man/internal/config"
	"github.com/andrewindechemain/modern-man/internal/images"
	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/andrewindechemain/modern-man/internal/seed"
	"github.com/andrewindechemain/modern-man/internal/store"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "modernman",
	Short:         "Manage the Modern Man catalog and customers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")
	rootCmd.AddCommand(addUserCmd(), addProductCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore opens and migrates the configured database so the CLI works
// before the server has ever run.
func openStore() (*store.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := store.NewStore(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}

func addUserCmd() *cobra.Command {
	var c models.Customer
	var password string

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a customer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := models.PaymentMethods[c.PaymentMethod]; !ok {
				return errors.Errorf("payment method must be visa, mpesa or paypal, got %q", c.PaymentMethod)
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}
			c.Password = string(hash)
			if _, err := db.CreateCustomer(ctx, &c); err != nil {
				return err
			}
			fmt.Printf("User '%s' created successfully.\n", c.Username)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.Username, "username", "", "Username for the new customer")
	f.StringVar(&password, "password", "", "Password for the new customer")
	f.StringVar(&c.Email, "email", "", "Email address")
	f.StringVar(&c.Name, "name", "", "Full name")
	f.StringVar(&c.City, "city", "", "City")
	f.StringVar(&c.Country, "country", "", "Country")
	f.StringVar(&c.PaymentMethod, "payment", "visa", "Payment method: visa, mpesa or paypal")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func addProductCmd() *cobra.Command {
	var p models.Product
	var price, rating, imagePath, uploadsDir string

	cmd := &cobra.Command{
		Use:   "add-product",
		Short: "Add a product, optionally with a photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if p.Price, err = decimal.NewFromString(price); err != nil {
				return errors.Wrap(err, "price")
			}
			if rating != "" {
				if p.AverageRating, err = decimal.NewFromString(rating); err != nil {
					return errors.Wrap(err, "rating")
				}
			}
			if p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
				return errors.New("discount must be between 0 and 100")
			}

			if imagePath != "" {
				name, err := images.SaveFile(imagePath, uploadsDir)
				if err != nil {
					return err
				}
				p.ImageURL = "/static/uploads/" + name
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := db.CreateProduct(ctx, &p)
			if err != nil {
				return err
			}
			fmt.Printf("Product '%s' created with id %d.\n", p.Name, id)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "Product name")
	f.StringVar(&p.Description, "description", "", "Description")
	f.StringVar(&p.Category, "category", "", "Category: suits, shirts, neckwear or shoes")
	f.StringVar(&price, "price", "", "Price, e.g. 149.99")
	f.StringVar(&rating, "rating", "", "Average rating")
	f.IntVar(&p.DiscountPercentage, "discount", 0, "Discount percentage")
	f.BoolVar(&p.IsNew, "new", false, "Mark as new")
	f.StringVar(&imagePath, "image", "", "PNG or JPEG photo; stored as an 800px JPEG")
	f.StringVar(&uploadsDir, "uploads", "static/uploads", "Directory the server serves uploads from")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products, customers and favorites from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(file)
			if err != nil {
				return errors.Wrap(err, "open seed file")
			}
			defer in.Close()

			data, err := seed.Load(in)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seed.Apply(ctx, db, data)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d products, %d customers and %d favorites.\n", res.Products, res.Customers, res.Favorites)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "Seed file")
	return cmd
}
