package planctl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nandoesporte/gut59/backend/internal/plan"
)

func newRepairCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "repair <plan.json>",
		Short: "Add the default salad to lunches and dinners missing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readMealPlan(args[0])
			if err != nil {
				return err
			}
			changed := plan.AddSaladsToMeals(p)

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
			if changed {
				fmt.Fprintln(cmd.ErrOrStderr(), "salads added")
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "plan unchanged")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the repaired plan to this file")
	return cmd
}

func readMealPlan(path string) (*plan.MealPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return plan.DecodeMealPlan(data)
}
