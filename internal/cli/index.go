package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/hyperion/internal/search"
)

var (
	articleID       string
	articleTitle    string
	articleURL      string
	articleCategory string
	categoryID      string
	categoryName    string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the content index of published articles",
	Long: `The content index lists already-published articles and categories.
Generated articles link to related entries from it and reuse its categories.

The index path comes from --index or content.index_path in the config.

Example:
  hyperion index add-category --index site.db --name "Wisata Bali"
  hyperion index add-article --index site.db --title "Pantai Legian Bali" --url https://sekali.id/pantai-legian
  hyperion index list --index site.db`,
}

var indexAddArticleCmd = &cobra.Command{
	Use:   "add-article",
	Short: "Add or replace a published article",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(articleTitle) == "" || strings.TrimSpace(articleURL) == "" {
			return fmt.Errorf("--title and --url are required")
		}
		return withIndex(func(ctx context.Context, idx *search.SQLiteIndex) error {
			a := search.Article{ID: articleID, Title: articleTitle, URL: articleURL, CategoryID: articleCategory}
			if a.ID == "" {
				a.ID = uuid.NewString()
			}
			if err := idx.AddArticle(ctx, a); err != nil {
				return err
			}
			fmt.Printf("✓ Article %s: %s\n", a.ID, a.Title)
			return nil
		})
	},
}

var indexAddCategoryCmd = &cobra.Command{
	Use:   "add-category",
	Short: "Add or replace a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(categoryName) == "" {
			return fmt.Errorf("--name is required")
		}
		return withIndex(func(ctx context.Context, idx *search.SQLiteIndex) error {
			c := search.Category{ID: categoryID, Name: categoryName}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if err := idx.AddCategory(ctx, c); err != nil {
				return err
			}
			fmt.Printf("✓ Category %s: %s\n", c.ID, c.Name)
			return nil
		})
	},
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(func(ctx context.Context, idx *search.SQLiteIndex) error {
			categories, err := idx.ListCategories(ctx)
			if err != nil {
				return err
			}
			articles, err := idx.ListArticles(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "CATEGORY ID\tNAME\n")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			fmt.Fprintf(w, "\nARTICLE ID\tTITLE\tURL\tCATEGORY\n")
			for _, a := range articles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.URL, a.CategoryID)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexAddArticleCmd, indexAddCategoryCmd, indexListCmd)

	indexAddArticleCmd.Flags().StringVar(&articleID, "id", "", "article ID (default: random UUID)")
	indexAddArticleCmd.Flags().StringVar(&articleTitle, "title", "", "article title")
	indexAddArticleCmd.Flags().StringVar(&articleURL, "url", "", "article URL")
	indexAddArticleCmd.Flags().StringVar(&articleCategory, "category", "", "category ID")

	indexAddCategoryCmd.Flags().StringVar(&categoryID, "id", "", "category ID (default: random UUID)")
	indexAddCategoryCmd.Flags().StringVar(&categoryName, "name", "", "category name")
}

// withIndex opens the configured SQLite index for one command
func withIndex(fn func(ctx context.Context, idx *search.SQLiteIndex) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Content.IndexPath == "" {
		return fmt.Errorf("no index path: pass --index or set content.index_path")
	}
	idx, err := search.OpenSQLite(cfg.Content.IndexPath)
	if err != nil {
		return fmt.Errorf("open content index: %w", err)
	}
	defer func() { _ = idx.Close() }()
	return fn(context.Background(), idx)
}
