// Command electnet runs the county-level election analysis: data loading
// and cleaning, descriptive plots, and cross-validated tuning of penalized
// regression and classification models.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voteworks/electnet/pkg/log"
	"github.com/voteworks/electnet/report"
)

const version = "0.1.0"

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:     "electnet",
		Short:   "County-level election analysis with penalized linear models",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Setup(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(newReportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	v := viper.New()
	report.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis and print ranked results",
		Long: `Loads and cleans the county election table, renders descriptive
figures, tunes Lasso and Elastic Net regressions of the 2012 Republican
vote share, tunes penalized logistic models of the 2016 majority winner,
and prints cross-validated rankings plus final evaluation metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := report.FromViper(v)
			if err != nil {
				return err
			}
			return report.NewPipeline(cfg, os.Stdout).Run()
		},
	}

	cmd.Flags().String("data", "election.csv", "Path to the input CSV")
	cmd.Flags().Int64("seed", 42, "PRNG seed for shuffling and splits")
	cmd.Flags().Int("folds", 5, "Number of cross-validation folds")
	cmd.Flags().Float64("penalty-min", 1e-2, "Smallest penalty on the log grid")
	cmd.Flags().Float64("penalty-max", 1e5, "Largest penalty on the log grid")
	cmd.Flags().Int("penalty-count", 1000, "Number of penalty grid points")
	cmd.Flags().Float64("mixture-step", 0.05, "Mixture grid step between 0 (ridge) and 1 (lasso)")
	cmd.Flags().Float64("holdout", 0.2, "Holdout fraction for final evaluation; 0 scores on the training rows")
	cmd.Flags().Bool("thresholded-auc", false, "Compute ROC AUC from rounded predictions instead of probabilities")
	cmd.Flags().String("plot-dir", "plots", "Directory for figures; empty skips plotting")
	cmd.Flags().Int("top-n", 5, "Number of candidates shown per ranking table")

	v.SetEnvPrefix("ELECTNET")
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}
