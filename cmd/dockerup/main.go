// Command dockerup reconciles the containers running on this host
// against a desired-state inventory. It runs either a single sync
// cycle or, in server mode, a loop on a fixed interval until
// terminated.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/barchart/dockerup/internal/cachestore"
	"github.com/barchart/dockerup/internal/clock"
	"github.com/barchart/dockerup/internal/config"
	"github.com/barchart/dockerup/internal/driver"
	"github.com/barchart/dockerup/internal/logging"
	"github.com/barchart/dockerup/internal/reconcile"
	"github.com/barchart/dockerup/internal/syncloop"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dockerup: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dockerup",
	Short: "Reconciles the containers running on this host against a desired-state inventory",
	RunE:  runReconcile,
}

func init() {
	rootCmd.Flags().String("config", config.DefaultPropertiesFile, "path to the properties file")
	rootCmd.Flags().String("confdir", "", "directory of container spec JSON files (overrides the properties file)")
	rootCmd.Flags().Bool("aws", false, "fetch container specs from EC2 user-data")
	rootCmd.Flags().Bool("no-aws", false, "disable EC2 user-data fetching, overriding the properties file")
	rootCmd.Flags().Bool("pull", false, "pull images before comparing against the running container")
	rootCmd.Flags().Bool("no-pull", false, "disable image pulls, overriding the properties file")
	rootCmd.Flags().Bool("server", false, "run continuously at the configured interval instead of once")
	rootCmd.Flags().Bool("no-server", false, "run a single cycle and exit, overriding the properties file")
	rootCmd.Flags().Bool("json-log", false, "emit structured logs as JSON instead of text")
	rootCmd.Flags().Bool("metrics", false, "expose Prometheus metrics over HTTP")
	rootCmd.Flags().String("metrics-addr", ":9090", "address for the metrics HTTP listener")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	jsonLog, _ := flags.GetBool("json-log")
	log := logging.New(jsonLog)

	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings.ApplyCLI(cliOverrides(flags))

	api, err := driver.NewClient(settings.Remote)
	if err != nil {
		return fmt.Errorf("connect to runtime: %w", err)
	}
	defer api.Close()

	cache, err := cachestore.New(cachestore.DefaultDir)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}

	reconciler := reconcile.New(api, cache, settings, log, clock.Real{})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if metricsEnabled, _ := flags.GetBool("metrics"); metricsEnabled {
		addr, _ := flags.GetString("metrics-addr")
		serveMetrics(addr, log)
	}

	loop := syncloop.New(reconciler, log, clock.Real{}, settings.Interval)

	if !settings.Server() {
		log.Info("running one-shot sync cycle")
		return loop.RunOnce(ctx)
	}

	log.Info("starting sync loop", "interval", settings.Interval())
	if err := loop.RunServer(ctx); err != nil {
		return err
	}
	log.Info("dockerup shutdown complete")
	return nil
}

// cliOverrides maps the explicit on/off flag pairs onto
// config.CLIOverrides: the "no-*" flag wins if both are set, since
// cobra doesn't preserve parse order across a pair of bools.
func cliOverrides(flags *pflag.FlagSet) config.CLIOverrides {
	var o config.CLIOverrides

	if confdir, _ := flags.GetString("confdir"); confdir != "" {
		o.ConfDir = &confdir
	}

	if v, ok := resolveToggle(flags, "aws", "no-aws"); ok {
		o.AWS = &v
	}
	if v, ok := resolveToggle(flags, "pull", "no-pull"); ok {
		o.Pull = &v
	}
	if v, ok := resolveToggle(flags, "server", "no-server"); ok {
		o.Server = &v
	}

	return o
}

// resolveToggle reports the effective value of an enable/disable flag
// pair and whether either was actually set on the command line.
func resolveToggle(flags *pflag.FlagSet, enable, disable string) (bool, bool) {
	if flags.Changed(disable) {
		return false, true
	}
	if flags.Changed(enable) {
		return true, true
	}
	return false, false
}

func serveMetrics(addr string, log *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server error", "error", err)
		}
	}()
	log.Info("metrics listening", "addr", addr)
}
