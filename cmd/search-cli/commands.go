package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/app"
	config "github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultCLIMaxResults = 5

var (
	field                string
	similarThreshold     float64
	flavorThreshold      float64
	ingredientsThreshold float64

	abvMin   float64
	abvMax   float64
	excluded []string
	required []string
)

var similarCmd = &cobra.Command{
	Use:   "similar <cocktail>",
	Short: "Find cocktails similar to the given one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			matches, err := uc.FindSimilarByAnchor(cmd.Context(),
				usecase.NewFindSimilarReq(name, domain.EmbeddingField(field), maxResults, similarThreshold))
			if err != nil {
				return err
			}

			return printMatches(cmd.OutOrStdout(), fmt.Sprintf("Cocktails similar to %q", name), matches)
		})
	},
}

var flavorCmd = &cobra.Command{
	Use:   "flavor <description>",
	Short: "Search cocktails by a flavor description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			matches, err := uc.FindByFreeText(cmd.Context(),
				usecase.NewFreeTextReq(text, domain.EmbeddingField(field), maxResults, flavorThreshold))
			if err != nil {
				return err
			}

			return printMatches(cmd.OutOrStdout(), fmt.Sprintf("Cocktails matching %q", text), matches)
		})
	},
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients <ingredient>...",
	Short: "Search cocktails containing the given ingredients",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			matches, err := uc.FindByIngredients(cmd.Context(), usecase.NewIngredientsReq(args, ingredientsThreshold, maxResults))
			if err != nil {
				return err
			}

			return printOverlaps(cmd.OutOrStdout(), matches)
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <cocktail>",
	Short: "Recommend ingredients that fit the cocktail",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			matches, err := uc.RecommendIngredients(cmd.Context(), usecase.NewRecommendReq(name, maxResults))
			if err != nil {
				return err
			}

			return printRecommendations(cmd.OutOrStdout(), name, matches)
		})
	},
}

var preferencesCmd = &cobra.Command{
	Use:   "preferences",
	Short: "Filter cocktails by ABV range, excluded categories and required tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			cocktails, err := uc.FindByPreferences(cmd.Context(),
				usecase.NewPreferencesReq(abvMin, abvMax, excluded, required, maxResults))
			if err != nil {
				return err
			}

			return printCocktails(cmd.OutOrStdout(), cocktails)
		})
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show a cocktail with its recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("cocktail id must be an integer: %q", args[0])
		}

		return withSearch(cmd.Context(), func(uc usecase.SearchUC) error {
			cocktail, err := uc.GetCocktailDetails(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printDetails(cmd.OutOrStdout(), cocktail)
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the MinIO snapshot of the record store",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish records and embeddings from PostgreSQL as a MinIO snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewZeroLogger()

		cfg, err := config.Load(log)
		if err != nil {
			return err
		}

		res, err := app.ExportSnapshot(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s: %d cocktails, %d ingredients, %d vectors\n",
			res.Key, res.Cocktails, res.Ingredients, res.Vectors)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&maxResults, "max-results", defaultCLIMaxResults, "maximum number of results")

	for _, cmd := range []*cobra.Command{similarCmd, flavorCmd} {
		cmd.Flags().StringVar(&field, "field", string(usecase.DefaultField), "embedding field: description|flavor|method|ingredients|tags")
	}
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", usecase.DefaultSimilarThreshold, "minimum similarity in [0, 1]")
	flavorCmd.Flags().Float64Var(&flavorThreshold, "threshold", usecase.DefaultFreeTextThreshold, "minimum similarity in [0, 1]")
	ingredientsCmd.Flags().Float64Var(&ingredientsThreshold, "threshold", usecase.DefaultIngredientsThreshold, "minimum fraction of matched ingredients")

	preferencesCmd.Flags().Float64Var(&abvMin, "abv-min", usecase.DefaultPreferencesABVMin, "minimum ABV")
	preferencesCmd.Flags().Float64Var(&abvMax, "abv-max", usecase.DefaultPreferencesABVMax, "maximum ABV")
	preferencesCmd.Flags().StringSliceVar(&excluded, "exclude", nil, "excluded categories")
	preferencesCmd.Flags().StringSliceVar(&required, "tag", nil, "required tags")

	snapshotCmd.AddCommand(snapshotExportCmd)
	rootCmd.AddCommand(similarCmd, flavorCmd, ingredientsCmd, recommendCmd, preferencesCmd, detailsCmd, snapshotCmd)
}
