package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wichananm65/nursery-shop-backend/internal/category"
	"github.com/wichananm65/nursery-shop-backend/internal/config"
	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/obs"
	"github.com/wichananm65/nursery-shop-backend/internal/product"
)

// catalogFile is the seed format: free-form documents under two keys.
type catalogFile struct {
	Categories []map[string]any `yaml:"categories"`
	Products   []map[string]any `yaml:"products"`
}

type catalog struct {
	Categories []category.Category
	Products   []product.Product
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace categories and products with the contents of a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			cat, err := parseCatalog(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return runSeed(cmd.Context(), cat)
		},
	}
	cmd.Flags().StringP("file", "f", "catalog.yaml", "Seed file")
	return cmd
}

func parseCatalog(r io.Reader) (catalog, error) {
	var raw catalogFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return catalog{}, fmt.Errorf("decode seed: %w", err)
	}

	var out catalog
	for i, m := range raw.Categories {
		c, err := category.FromFields(m)
		if err != nil {
			return catalog{}, fmt.Errorf("categories[%d]: %w", i, err)
		}
		out.Categories = append(out.Categories, c)
	}
	for _, m := range raw.Products {
		out.Products = append(out.Products, product.FromFields(m))
	}
	return out, nil
}

func runSeed(ctx context.Context, cat catalog) error {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)

	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Disconnect(context.Background()); err != nil {
			obs.Logger.Warn("store_disconnect_error", "error", err)
		}
	}()

	if err := seedCatalog(ctx,
		category.NewService(category.NewMongoRepository(store.Categories())),
		product.NewService(product.NewMongoRepository(store.Products())),
		cat,
	); err != nil {
		return err
	}
	obs.Logger.Info("catalog_seeded", "categories", len(cat.Categories), "products", len(cat.Products))
	return nil
}

// seedCatalog replaces categories first so strict category checks see them.
func seedCatalog(ctx context.Context, categories *category.Service, products *product.Service, cat catalog) error {
	if err := categories.Reset(ctx, cat.Categories); err != nil {
		return err
	}
	return products.ResetProducts(ctx, cat.Products)
}
