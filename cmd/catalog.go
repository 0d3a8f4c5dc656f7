package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"delivery-admin/core/reconcile"
	"delivery-admin/core/utils"
	"delivery-admin/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and edit the remote catalog",
}

var catalogListCmd = &cobra.Command{
	Use:       "list [categories|ingredients|foods]",
	Short:     "Load the catalog and print one collection as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{catalog.ResourceCategory, catalog.ResourceIngredient, catalog.ResourceFood, "categories", "ingredients", "foods"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.coordinator.LoadAll(ctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		switch args[0] {
		case catalog.ResourceCategory, "categories":
			return printJSON(rt.coordinator.Categories())
		case catalog.ResourceIngredient, "ingredients":
			return printJSON(rt.coordinator.Ingredients())
		case catalog.ResourceFood, "foods":
			return printJSON(rt.coordinator.Foods())
		}
		return fmt.Errorf("unknown collection %q", args[0])
	},
}

var (
	assignFood        string
	assignIngredients string
	assignDryRun      bool
	assignYes         bool
)

var catalogAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Set the ingredient list of a food",
	Long: `Compares the food's current ingredients with the requested list and
issues one link call per added ingredient and one unlink call per removed
ingredient. Failed pairs are reported and can be retried by running the same
command again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		foodID, err := utils.ParseID(assignFood)
		if err != nil {
			return fmt.Errorf("--food: %w", err)
		}
		desired, err := utils.ParseIDs(assignIngredients)
		if err != nil {
			return fmt.Errorf("--ingredients: %w", err)
		}

		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()

		plan, err := rt.coordinator.PlanAssignment(ctx, foodID, desired)
		if err != nil {
			return err
		}
		printPlan(logg, plan)

		if assignDryRun || plan.Empty() {
			return nil
		}

		if len(plan.ToRemove) > 0 && !confirmDestructiveAction(fmt.Sprintf("This will unlink %d ingredient(s) from food %d.", len(plan.ToRemove), foodID)) {
			logg.Info("Assignment cancelled")
			return nil
		}

		result, err := rt.coordinator.AssignIngredients(ctx, foodID, desired)
		if result != nil {
			printAssignResult(logg, result)
		}
		if err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%d relation call(s) failed", len(result.Failed))
		}
		return nil
	},
}

func init() {
	catalogAssignCmd.Flags().StringVar(&assignFood, "food", "", "Food id")
	catalogAssignCmd.Flags().StringVar(&assignIngredients, "ingredients", "", "Comma separated ingredient ids, empty to clear")
	catalogAssignCmd.Flags().BoolVar(&assignDryRun, "dry-run", false, "Print the plan without calling the store")
	catalogAssignCmd.Flags().BoolVarP(&assignYes, "yes", "y", false, "Skip the confirmation prompt")
	_ = catalogAssignCmd.MarkFlagRequired("food")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAssignCmd)
	RootCmd.AddCommand(catalogCmd)
}

func printPlan(logg *zap.Logger, plan *reconcile.Plan) {
	logg.Info("Assignment plan",
		zap.Int64("food_id", plan.FoodID),
		zap.Int("current", plan.Summary.Current),
		zap.Int("desired", plan.Summary.Desired),
		zap.Int64s("link", plan.ToAdd),
		zap.Int64s("unlink", plan.ToRemove),
		zap.Int("unchanged", plan.Summary.Unchanged),
	)
}

func printAssignResult(logg *zap.Logger, result *catalog.AssignResult) {
	logg.Info("Assignment finished",
		zap.Int64("food_id", result.FoodID),
		zap.String("request_id", result.RequestID),
		zap.Int("applied", len(result.Applied)),
		zap.Int("failed", len(result.Failed)),
	)
	for _, f := range result.Failed {
		logg.Warn("Relation call failed",
			zap.String("action", string(f.Type)),
			zap.Int64("ingredient_id", f.IngredientID),
			zap.String("error", f.Error),
		)
	}
}

// confirmDestructiveAction prompts unless --yes was given.
func confirmDestructiveAction(msg string) bool {
	if assignYes {
		return true
	}
	fmt.Printf("%s Type 'yes' to continue: ", msg)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer)) == "yes"
}
