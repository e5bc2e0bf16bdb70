package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tinygo.org/x/sleep/internal/config"
)

var (
	flagConfig         string
	flagDriver         string
	flagRTC            string
	flagRetained       string
	flagColdBootStatus int32
	flagLenient        bool
	flagVerbose        bool
)

var log = logrus.New()

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: ~/.sleepctl/config.yaml)")
	pf.StringVar(&flagDriver, "driver", config.DriverLogind, "Sleep driver: logind or sim")
	pf.StringVar(&flagRTC, "rtc", "", "RTC device used for timer wakeups")
	pf.StringVar(&flagRetained, "retained", "", "File holding the retained status")
	pf.Int32Var(&flagColdBootStatus, "cold-boot-status", 0, "Retained status after a cold boot")
	pf.BoolVar(&flagLenient, "lenient", false, "Ignore malformed native calls like the firmware does")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "sleepctl",
	Short: "Enter sleep states, arm wake sources and read the retained status",
	Long: `sleepctl exposes the sleep binding on the command line.

The logind driver suspends the host for light sleep and powers it off for
deep sleep, with the RTC alarm as timer wake source. The sim driver runs
every command against a simulated chip that lives for one invocation; use
"sleepctl run" to execute a sequence of native calls across simulated
deep sleep cycles.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		if flagVerbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig collects the flags the user actually set and resolves the
// configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("driver") {
		o.Driver = &flagDriver
	}
	if f.Changed("rtc") {
		o.RTC = &flagRTC
	}
	if f.Changed("retained") {
		o.Retained = &flagRetained
	}
	if f.Changed("cold-boot-status") {
		o.ColdBootStatus = &flagColdBootStatus
	}
	if f.Changed("lenient") {
		o.Lenient = &flagLenient
	}
	cfg, err := config.Load(flagConfig, o)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}
