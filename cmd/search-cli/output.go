package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatABV(abv *float64) string {
	if abv == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *abv)
}

func printMatches(w io.Writer, title string, matches []domain.CocktailMatch) error {
	fmt.Fprintf(w, "%s: %d found\n", title, len(matches))

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tSIMILARITY\tABV")
	for i, m := range matches {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.3f\t%s\n", i+1, m.Cocktail.ID, m.Cocktail.Name, m.Score, formatABV(m.Cocktail.ABV))
	}

	return tw.Flush()
}

func printOverlaps(w io.Writer, matches []domain.IngredientOverlapMatch) error {
	fmt.Fprintf(w, "Cocktails by ingredients: %d found\n", len(matches))

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tMATCHED\tFRACTION\tINGREDIENTS")
	for i, m := range matches {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d/%d\t%.2f\t%s\n", i+1, m.Cocktail.ID, m.Cocktail.Name,
			m.MatchedCount, m.TotalCount, m.MatchFraction, strings.Join(m.MatchedIngredients, ", "))
	}

	return tw.Flush()
}

func printRecommendations(w io.Writer, anchor string, matches []domain.IngredientMatch) error {
	fmt.Fprintf(w, "Ingredients that fit %q: %d found\n", anchor, len(matches))

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tCATEGORY\tSIMILARITY")
	for i, m := range matches {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.3f\n", i+1, m.Ingredient.ID, m.Ingredient.Name, m.Ingredient.Category, m.Score)
	}

	return tw.Flush()
}

func printCocktails(w io.Writer, cocktails []domain.Cocktail) error {
	fmt.Fprintf(w, "Cocktails matching preferences: %d found\n", len(cocktails))

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tABV\tTAGS")
	for i, c := range cocktails {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", i+1, c.ID, c.Name, formatABV(c.ABV), strings.Join(c.Tags, ", "))
	}

	return tw.Flush()
}

func printDetails(w io.Writer, c *domain.Cocktail) error {
	fmt.Fprintf(w, "%s (id %d)\n", c.Name, c.ID)
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n", c.Description)
	}
	fmt.Fprintf(w, "ABV: %s  Method: %s  Glass: %s\n", formatABV(c.ABV), c.Method, c.Glass)
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(c.Tags, ", "))
	}

	fmt.Fprintln(w, "\nIngredients:")
	tw := newTable(w)
	for _, line := range c.Ingredients {
		name := fmt.Sprintf("unknown ingredient #%d", line.IngredientID)
		if line.Known() {
			name = line.Ingredient.Name
		}

		amount := ""
		if line.Amount != nil {
			amount = strings.TrimSpace(fmt.Sprintf("%g %s", *line.Amount, line.Unit))
		}

		optional := ""
		if line.Optional {
			optional = "(optional)"
		}

		fmt.Fprintf(tw, "  -\t%s\t%s\t%s\t%s\n", name, amount, optional, line.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if c.Instructions != "" {
		fmt.Fprintf(w, "\nInstructions:\n%s\n", c.Instructions)
	}
	if c.Garnish != "" {
		fmt.Fprintf(w, "Garnish: %s\n", c.Garnish)
	}

	return nil
}
