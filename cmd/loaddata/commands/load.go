package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Load ingredients",
	Long: `Load ingredients from a JSON array of {"name", "measurement_unit"} objects.

Examples:
  loaddata ingredients --file data/ingredients.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd, func(ctx context.Context, catalog *service.CatalogService, data []byte) (int, error) {
			var items []models.Ingredient
			if err := json.Unmarshal(data, &items); err != nil {
				return 0, fmt.Errorf("failed to parse ingredients: %w", err)
			}
			return catalog.LoadIngredients(ctx, items)
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Load tags",
	Long: `Load tags from a JSON array of {"name", "color", "slug"} objects.

Examples:
  loaddata tags --file data/tags.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd, func(ctx context.Context, catalog *service.CatalogService, data []byte) (int, error) {
			var items []models.Tag
			if err := json.Unmarshal(data, &items); err != nil {
				return 0, fmt.Errorf("failed to parse tags: %w", err)
			}
			return catalog.LoadTags(ctx, items)
		})
	},
}

type loader func(ctx context.Context, catalog *service.CatalogService, data []byte) (int, error)

func runLoad(cmd *cobra.Command, load loader) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, release, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer release()

	n, err := load(cmd.Context(), service.NewCatalogService(db), data)
	return report(cmd.OutOrStdout(), cmd.Name(), n, err)
}

// report prints the outcome. A populated table is not a failure.
func report(out io.Writer, what string, n int, err error) error {
	if errors.Is(err, service.ErrCatalogNotEmpty) {
		fmt.Fprintf(out, "%s already loaded, nothing to do\n", what)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "loaded %d %s\n", n, what)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{ingredientsCmd, tagsCmd} {
		cmd.Flags().StringP("file", "f", "", "Path to the JSON fixture")
		_ = cmd.MarkFlagRequired("file")
		rootCmd.AddCommand(cmd)
	}
}
