package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ridopark/jonbu-wfo/internal/config"
	"github.com/ridopark/jonbu-wfo/internal/logger"
)

var cronExpr string

var scheduledCmd = &cobra.Command{
	Use:   "scheduled",
	Short: "Re-run the walk-forward optimization on a cron schedule",
	Long: `scheduled invokes the same run performed by "wfo run" on a recurring
cron expression, useful for nightly re-optimization against a freshly
extended candle file. Each fire is an independent batch run; there is no
shared state between fires beyond the output directory.`,
	RunE: runScheduled,
}

func init() {
	scheduledCmd.Flags().StringVar(&cronExpr, "cron", "0 0 * * *", "cron expression controlling when the run fires")
	// The scheduled command reuses every run flag.
	scheduledCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runScheduled(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.Environment)
	log := logger.NewServiceLogger("wfo", "scheduled")

	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc(normalizeCronExpr(cronExpr), func() {
		log.Info().Str("cron", cronExpr).Msg("scheduled wfo run firing")
		if err := runWFO(cmd, args); err != nil {
			log.Error().Err(err).Msg("scheduled wfo run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	c.Start()
	defer c.Stop()

	log.Info().Str("cron", cronExpr).Msg("wfo scheduled started, waiting for fires")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("wfo scheduled shutting down")
	return nil
}

// normalizeCronExpr prefixes a standard 5-field cron expression with a
// "0" seconds field when cron.WithSeconds() is in use, so operators can
// still pass the familiar 5-field syntax.
func normalizeCronExpr(expr string) string {
	fields := 1
	for _, r := range expr {
		if r == ' ' {
			fields++
		}
	}
	if fields == 5 {
		return "0 " + expr
	}
	return expr
}
