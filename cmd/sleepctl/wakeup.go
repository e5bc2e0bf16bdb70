package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tinygo.org/x/sleep"
)

func init() {
	rootCmd.AddCommand(ext0Cmd, ext1Cmd, causeCmd, pinsCmd)
}

var ext0Cmd = &cobra.Command{
	Use:   "ext0 <pin> <level>",
	Short: "Arm a single pin wake source (level: low, high, 0 or 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseInt32("pin", args[0])
		if err != nil {
			return err
		}
		level, err := parseLevel(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.b.EnableExt0Wakeup(sleep.Pin(pin), level); err != nil {
			return fmt.Errorf("failed to arm ext0 wakeup: %w", err)
		}
		s.log.WithField("pin", pin).WithField("level", level).Info("ext0 wakeup armed")
		return nil
	},
}

var ext1Cmd = &cobra.Command{
	Use:   "ext1 <pins> <mode>",
	Short: "Arm a multi pin wake source (mode: all-low, any-high, 0 or 1)",
	Long: `Arms a multi pin wake source. <pins> is a comma separated pin list such as
32,33 or a mask such as 0x300000000.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mask, err := parsePinMask(args[0])
		if err != nil {
			return err
		}
		mode, err := parseExt1Mode(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.b.EnableExt1Wakeup(mask, mode); err != nil {
			return fmt.Errorf("failed to arm ext1 wakeup: %w", err)
		}
		s.log.WithField("pins", formatPins(mask)).WithField("mode", mode).Info("ext1 wakeup armed")
		return nil
	},
}

var causeCmd = &cobra.Command{
	Use:   "cause",
	Short: "Print why the system left its last sleep state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		cause := s.b.WakeupCause()
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", cause, int32(cause))
		return nil
	},
}

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Print the pins that caused an ext1 wakeup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatPins(s.b.WakeupPins()))
		return nil
	},
}
