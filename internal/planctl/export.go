package planctl

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
)

func newExportCmd() *cobra.Command {
	var (
		output   string
		planType string
		owner    string
	)
	cmd := &cobra.Command{
		Use:   "export <plan.json>",
		Short: "Render a plan document as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			stored := &service.StoredPlan{
				PlanType:    models.PlanType(planType),
				PlanData:    models.JSONDoc(data),
				GeneratedAt: time.Now(),
			}
			pdf, err := service.NewExportService(nil).RenderPDF(stored, owner)
			if err != nil {
				return err
			}
			if output == "" {
				output = service.ExportFilename(stored)
			}
			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file to write")
	cmd.Flags().StringVarP(&planType, "type", "t", string(models.PlanNutrition), "Plan type: nutrition, workout or physio")
	cmd.Flags().StringVar(&owner, "owner", "", "Name printed under the title")
	return cmd
}
