package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rplan/retirement-planner/internal/calculation"
)

var (
	flagVerbose bool
	flagDBPath  string
)

var rootCmd = &cobra.Command{
	Use:   "rplan",
	Short: "Retirement planning calculator",
	Long: `rplan projects retirement portfolios year by year: Social Security timing,
withdrawal sequencing, federal and Colorado taxes, and scenario comparison.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath(), "Path to the profile database")
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "rplan.db"
	}
	return homeDir + "/.rplan/rplan.db"
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// slogAdapter bridges the calculation logger onto slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Debugf(format string, args ...any) { a.logger.Debug(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Infof(format string, args ...any)  { a.logger.Info(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Warnf(format string, args ...any)  { a.logger.Warn(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Errorf(format string, args ...any) { a.logger.Error(fmt.Sprintf(format, args...)) }

var _ calculation.Logger = slogAdapter{}

func newEngine() *calculation.Engine {
	if flagVerbose {
		return calculation.NewEngine(slogAdapter{logger: newLogger()})
	}
	return calculation.NewEngine(nil)
}
