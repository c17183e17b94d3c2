// Command seed loads a YAML fixture set into the database: layouts,
// the page tree, and the product catalog. It is idempotent enough for
// development use; existing records are skipped, not overwritten.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"storefront_backend/internal/catalog/domain"
	catalogrepo "storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/pages"
	"storefront_backend/migrations"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/db"
	"storefront_backend/platform/logger"
)

type fixtures struct {
	Layouts []struct {
		Name    string `yaml:"name"`
		Content string `yaml:"content"`
	} `yaml:"layouts"`
	Pages []struct {
		Slug       string            `yaml:"slug"`
		ParentPath string            `yaml:"parent_path"`
		Kind       string            `yaml:"kind"`
		Title      string            `yaml:"title"`
		Layout     string            `yaml:"layout"`
		Parts      map[string]string `yaml:"parts"`
	} `yaml:"pages"`
	Products []struct {
		Code        string `yaml:"code"`
		Description string `yaml:"description"`
		Tiers       []struct {
			MinQuantity int   `yaml:"min_quantity"`
			UnitCents   int64 `yaml:"unit_cents"`
		} `yaml:"tiers"`
	} `yaml:"products"`
}

func main() {
	file := flag.String("file", "", "fixtures file (defaults to the embedded development set)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	log := logger.New(cfg.Env)

	data := defaultFixtures
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			fatal("failed to read fixtures: %v", err)
		}
		data = raw
	}

	var fix fixtures
	if err := yaml.Unmarshal(data, &fix); err != nil {
		fatal("failed to parse fixtures: %v", err)
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		fatal("failed to run migrations: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fatal("failed to connect to database: %v", err)
	}
	defer pool.Close()

	pageRepo := pages.NewRepo(pool)
	productRepo := catalogrepo.New(pool)

	for _, layout := range fix.Layouts {
		if _, err := pageRepo.SaveLayout(ctx, layout.Name, layout.Content); err != nil {
			fatal("failed to save layout %s: %v", layout.Name, err)
		}
		log.Info("layout saved", "name", layout.Name)
	}

	for _, page := range fix.Pages {
		params := pages.CreatePageParams{
			Slug:       page.Slug,
			Kind:       page.Kind,
			Title:      page.Title,
			LayoutName: page.Layout,
			Parts:      page.Parts,
		}
		if page.ParentPath != "" {
			parent, err := pageRepo.GetByPath(ctx, page.ParentPath)
			if err != nil {
				fatal("parent %s for page %s: %v", page.ParentPath, page.Slug, err)
			}
			id := parent.ID
			params.ParentID = &id
		}
		created, err := pageRepo.Create(ctx, params)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindConflict {
				log.Info("page exists, skipping", "slug", page.Slug)
				continue
			}
			fatal("failed to create page %s: %v", page.Slug, err)
		}
		log.Info("page created", "path", created.Path, "kind", created.Kind)
	}

	for _, product := range fix.Products {
		params := catalogrepo.CreateProductParams{
			Code:        product.Code,
			Description: product.Description,
		}
		for _, tier := range product.Tiers {
			params.Tiers = append(params.Tiers, domain.PriceTier{
				MinQuantity: tier.MinQuantity,
				UnitCents:   tier.UnitCents,
			})
		}
		created, err := productRepo.Create(ctx, params)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindConflict {
				log.Info("product exists, skipping", "code", product.Code)
				continue
			}
			fatal("failed to create product %s: %v", product.Code, err)
		}
		log.Info("product created", "code", created.Code, "id", created.ID)
	}

	log.Info("seed complete")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
