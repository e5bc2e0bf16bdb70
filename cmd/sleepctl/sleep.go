package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tinygo.org/x/sleep"
)

var flagTimeout time.Duration

func init() {
	for _, c := range []*cobra.Command{deepCmd, lightCmd} {
		c.Flags().DurationVar(&flagTimeout, "timeout", sleep.NoTimeout, "Arm a timer wake source (e.g. 500ms, 1m)")
		rootCmd.AddCommand(c)
	}
}

var deepCmd = &cobra.Command{
	Use:   "deep",
	Short: "Enter deep sleep",
	Long: `Enters deep sleep. On the host this powers the machine off and the RTC alarm
boots it again after --timeout. On the sim driver the chip resets and the
wake cause and retained status of the next boot are printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.deepSleep(func() error {
			s.b.EnterDeepSleep(flagTimeout)
			return nil
		}); err != nil {
			return err
		}
		return printBoot(cmd, s)
	},
}

var lightCmd = &cobra.Command{
	Use:   "light",
	Short: "Enter light sleep and wait for a wake source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		s.log.WithField("timeout", flagTimeout).Info("entering light sleep")
		start := time.Now()
		if err := s.b.EnterLightSleep(flagTimeout); err != nil {
			return fmt.Errorf("light sleep failed: %w", err)
		}
		s.log.WithField("slept", time.Since(start).Round(time.Millisecond)).Info("resumed")
		fmt.Fprintf(cmd.OutOrStdout(), "cause: %s\n", s.b.WakeupCause())
		return nil
	},
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, log)
}

func printBoot(cmd *cobra.Command, s *session) error {
	status, err := s.b.Status()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cause: %s\nstatus: %d\n", s.b.WakeupCause(), status)
	return nil
}
