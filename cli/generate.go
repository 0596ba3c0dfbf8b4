package cli

import (
	"callcenter-sim/config"
	"callcenter-sim/formatter"
	"callcenter-sim/logger"
	"callcenter-sim/parser"
	"callcenter-sim/simulator"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	startDate   string
	endDate     string
	agents      int
	managers    int
	customers   int
	seed        int64
	outputDir   string
	seedDir     string
	formats     []string
	programs    string
	metricsAddr string
	pushURL     string
	wait        bool
}

// GenerateCommand creates the generate command
func GenerateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic call center source data",
		Long: `Simulate the call center day by day and write calls, CRM cases and
survey responses as day-partitioned files, plus the agent, manager,
customer and assignment seed tables.

Settings come from the defaults, then .env and CALLSIM_* variables,
then flags.

Examples:
  # Default horizon into ./data and ./seeds
  callcenter-sim generate

  # One week, parquet and csv side by side
  callcenter-sim generate --global-start-date=2025-02-01 --global-end-date=2025-02-07 --format=parquet --format=csv

  # Expose metrics and keep the process up for scraping
  callcenter-sim generate --metrics-addr=:9090 --wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.startDate, "global-start-date", "", "First simulated day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "global-end-date", "", "Last simulated day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.agents, "agents", 0, "Number of agents")
	cmd.Flags().IntVar(&f.managers, "managers", 0, "Number of managers")
	cmd.Flags().IntVar(&f.customers, "customers", 0, "Number of customers (default: derived from agents and call volume)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Root of the day-partitioned event tree")
	cmd.Flags().StringVar(&f.seedDir, "seed-dir", "", "Directory for the seed tables")
	cmd.Flags().StringSliceVar(&f.formats, "format", nil, "Output format: parquet|csv|json (repeatable)")
	cmd.Flags().StringVar(&f.programs, "programs", "", "YAML program table replacing the built-in one")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	cmd.Flags().StringVar(&f.pushURL, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	cmd.Flags().BoolVar(&f.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	return cmd
}

// options turns the flags the user actually set into config options.
func (f generateFlags) options(cmd *cobra.Command) ([]config.Option, error) {
	var opts []config.Option
	changed := cmd.Flags().Changed

	if changed("global-start-date") {
		d, err := parser.ParseDate(f.startDate)
		if err != nil {
			return nil, fmt.Errorf("--global-start-date: %w", err)
		}
		opts = append(opts, config.WithStartDate(d))
	}
	if changed("global-end-date") {
		d, err := parser.ParseDate(f.endDate)
		if err != nil {
			return nil, fmt.Errorf("--global-end-date: %w", err)
		}
		opts = append(opts, config.WithEndDate(d))
	}
	if changed("agents") {
		opts = append(opts, config.WithAgents(f.agents))
	}
	if changed("managers") {
		opts = append(opts, config.WithManagers(f.managers))
	}
	if changed("customers") {
		opts = append(opts, config.WithCustomers(f.customers))
	}
	if changed("seed") {
		opts = append(opts, config.WithSeed(f.seed))
	}
	if changed("format") {
		opts = append(opts, config.WithOutputFormats(f.formats...))
	}
	if changed("programs") {
		opt, err := config.ProgramsFromFile(f.programs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	opts, err := f.options(cmd)
	if err != nil {
		return err
	}
	settings, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if f.outputDir != "" {
		settings.OutputDir = f.outputDir
	}
	if f.seedDir != "" {
		settings.SeedDir = f.seedDir
	}

	logCfg, err := logger.LoadConfig()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	log := logger.New(logCfg).WithField("run_id", runID)

	if f.metricsAddr != "" {
		serveMetrics(f.metricsAddr, log)
	}

	sim := settings.Simulation
	log.WithFields(logrus.Fields{
		"start":      sim.GlobalStartDate.String(),
		"end":        sim.GlobalEndDate.String(),
		"agents":     sim.AgentsCount,
		"managers":   sim.ManagersCount,
		"customers":  sim.CustomersCount,
		"seed":       sim.RNGSeed,
		"formats":    sim.OutputFormats,
		"output_dir": settings.OutputDir,
		"seed_dir":   settings.SeedDir,
	}).Info("Starting generation")

	summary, err := simulator.Generate(cmd.Context(), runID, sim, settings.OutputDir, settings.SeedDir, log)
	if err != nil {
		log.WithError(err).Error("Generation failed")
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatText(summary))

	// Handle metrics pushing or waiting
	if f.pushURL != "" {
		if err := pushMetrics(f.pushURL, runID); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "\nMetrics successfully pushed to Pushgateway")
		}
	}

	if f.wait && f.metricsAddr != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Fprintln(cmd.OutOrStdout(), "\nExiting...")
	} else if f.metricsAddr != "" && f.pushURL == "" {
		flushScrape()
	}
	return nil
}
