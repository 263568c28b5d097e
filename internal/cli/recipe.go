package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beltworks/camber/internal/recipe"
	"github.com/beltworks/camber/internal/sanitize"
	"github.com/beltworks/camber/internal/store"
)

// RecipeOptions holds flags shared by the recipe subcommands.
type RecipeOptions struct {
	*RootOptions
	Database string
}

// RecipeSummary is the JSON shape for one listed recipe.
type RecipeSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      string `json:"tier,omitempty"`
	Status    string `json:"status,omitempty"`
	IsFixture bool   `json:"is_fixture"`
}

// NewRecipeCommand creates the recipe command group.
func NewRecipeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage the stored recipe corpus",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite corpus (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRecipeAddCommand(opts))
	cmd.AddCommand(newRecipeListCommand(opts))
	cmd.AddCommand(newRecipePromoteCommand(opts))

	return cmd
}

func newRecipeAddCommand(opts *RecipeOptions) *cobra.Command {
	var name, tier, expectedPath, rulesPath string

	cmd := &cobra.Command{
		Use:   "add <payload.json>",
		Short: "Sanitize a payload and store it as a recipe",
		Long: `Sanitize a raw input payload and store it as a named recipe. The stored
body is always the sanitized form. An expected-outputs snapshot can be
attached at the same time.

Examples:
  camber recipe add order.json --db corpus.db --name "48ft incline"
  camber recipe add order.json --db corpus.db --name baseline --expected outputs.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read payload", err)
			}

			rules := sanitize.DefaultRules()
			if rulesPath != "" {
				rules, err = sanitize.LoadRuleTable(rulesPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to load rule table", err)
				}
			}

			rec := &recipe.Recipe{
				Name:   name,
				Tier:   tier,
				Status: "active",
				Inputs: sanitize.Sanitize(raw, rules).Cleaned,
			}
			if expectedPath != "" {
				rec.Expected, err = readPayload(expectedPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read expected outputs", err)
				}
			}

			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			stored, err := st.SaveRecipe(context.Background(), rec)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to save recipe", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.Format == "json" {
				return out.Success(RecipeSummary{
					ID: stored.ID, Name: stored.Name, Tier: stored.Tier,
					Status: stored.Status, IsFixture: stored.IsFixture,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), stored.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "recipe name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&tier, "tier", "", "free-form tier label")
	cmd.Flags().StringVar(&expectedPath, "expected", "", "JSON file of expected outputs")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to a CUE sanitizer rule table")

	return cmd
}

func newRecipeListCommand(opts *RecipeOptions) *cobra.Command {
	var fixturesOnly bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			recipes, err := st.ListRecipes(context.Background(), fixturesOnly)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list recipes", err)
			}

			if opts.Format == "json" {
				summaries := make([]RecipeSummary, len(recipes))
				for i, r := range recipes {
					summaries[i] = RecipeSummary{
						ID: r.ID, Name: r.Name, Tier: r.Tier,
						Status: r.Status, IsFixture: r.IsFixture,
					}
				}
				out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(summaries)
			}

			for _, r := range recipes {
				marker := " "
				if r.IsFixture {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", marker, r.ID, r.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fixturesOnly, "fixtures", false, "list only promoted fixtures")

	return cmd
}

func newRecipePromoteCommand(opts *RecipeOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "promote <id>",
		Short:         "Promote a recipe into the regression fixture set",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			if err := st.PromoteFixture(context.Background(), args[0]); err != nil {
				return WrapExitError(ExitCommandError, "failed to promote recipe", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "promoted", args[0])
			return nil
		},
	}
}
