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
)

var (
	windowsMinPower float64
	windowsDuration float64
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Show time windows where production stays above a threshold",
	RunE:  runWindows,
}

func init() {
	windowsCmd.Flags().Float64Var(&windowsMinPower, "min-power", 1.0, "minimum production in kW")
	windowsCmd.Flags().Float64Var(&windowsDuration, "duration", 1.0, "minimum window length in hours")
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
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
			logger.New("windows-command").Errorf("service close: %v", err)
		}
	}()

	windows, err := svc.Windows(ctx, windowsMinPower, windowsDuration)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(windows) == 0 {
		fmt.Fprintf(out, "No windows of %.1fh above %.1f kW in the forecast.\n", windowsDuration, windowsMinPower)
		return nil
	}
	for _, w := range windows {
		fmt.Fprintf(out, "%s - %s\n", w.Start.Format("15:04"), w.End.Format("15:04"))
	}
	return nil
}
