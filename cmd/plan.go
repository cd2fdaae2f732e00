package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solhub/solarsched/app"
	"github.com/solhub/solarsched/config"
	"github.com/solhub/solarsched/infra/logger"
	"github.com/solhub/solarsched/pkg/export"
)

var (
	planOutput string
	planFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run a single optimization and print the schedule",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the schedule to a file instead of stdout")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "output format: text, json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("plan-command").Errorf("service close: %v", err)
		}
	}()

	plan, err := svc.RunOnce(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if planOutput != "" {
		f, err := os.Create(planOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch planFormat {
	case "json":
		return export.WriteJSON(out, plan.Schedule)
	case "csv":
		return export.WriteCSV(out, plan.Schedule)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}

	fmt.Fprintf(out, "Run %s\n\n", plan.RunID)
	if len(plan.Schedule) == 0 {
		fmt.Fprintln(out, "No appliances could be scheduled.")
	}
	for _, item := range plan.Schedule {
		fmt.Fprintf(out, "%-16s %s - %s  %.0f%% solar  %.2f kWh grid  %.2f saved\n",
			item.Appliance.Name,
			item.StartTime.Format("15:04"),
			item.EndTime.Format("15:04"),
			item.SolarCoverage*100,
			item.GridUsage,
			item.CostSavings,
		)
	}
	fmt.Fprintf(out, "\nTotal %.2f kWh, solar %.2f kWh (%.1f%%), savings %.2f\n",
		plan.Summary.TotalEnergy, plan.Summary.SolarEnergy,
		plan.Summary.SolarPercentage, plan.Summary.CostSavings)
	for _, rec := range plan.Recommendations {
		fmt.Fprintln(out, rec)
	}
	return nil
}
