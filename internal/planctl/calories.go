package planctl

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nandoesporte/gut59/backend/internal/nutrition"
)

func newCaloriesCmd() *cobra.Command {
	var (
		in     nutrition.Anthropometrics
		gender string
		level  string
		goal   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "calories",
		Short: "Compute BMR, daily calories and macro targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Gender = nutrition.Gender(gender)
			in.ActivityLevel = nutrition.ActivityLevel(level)
			in.Goal = nutrition.Goal(goal)
			res, err := nutrition.Calculate(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			share := nutrition.MacroPercentages(res.Macros.Protein, res.Macros.Carbs, res.Macros.Fats)
			fmt.Fprintf(out, "BMR\t%.0f kcal\n", res.BMR)
			fmt.Fprintf(out, "TDEE\t%.0f kcal\n", res.Maintenance)
			fmt.Fprintf(out, "DAILY\t%d kcal\n", res.DailyCalories)
			fmt.Fprintf(out, "PROTEIN\t%.0f g\t%.0f%%\n", res.Macros.Protein, share.Protein)
			fmt.Fprintf(out, "CARBS\t%.0f g\t%.0f%%\n", res.Macros.Carbs, share.Carbs)
			fmt.Fprintf(out, "FATS\t%.0f g\t%.0f%%\n", res.Macros.Fats, share.Fats)
			return nil
		},
	}
	cmd.Flags().Float64Var(&in.WeightKg, "weight", 0, "Weight in kg")
	cmd.Flags().Float64Var(&in.HeightCm, "height", 0, "Height in cm")
	cmd.Flags().IntVar(&in.Age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&gender, "gender", "", "male or female")
	cmd.Flags().StringVar(&level, "activity", "moderate", "Activity level")
	cmd.Flags().StringVar(&goal, "goal", "maintain", "Goal")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	for _, name := range []string{"weight", "height", "age", "gender"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
