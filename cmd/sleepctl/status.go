package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pdCmd, statusCmd)
}

var pdCmd = &cobra.Command{
	Use:   "pd <domain> <option>",
	Short: "Configure a power domain for sleep",
	Long: `Configures whether a power domain stays powered during sleep.

Domains: rtc-periph, rtc-slow-mem, rtc-fast-mem (or 0, 1, 2).
Options: off, on, auto (or 0, 1, 2).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := parsePowerDomain(args[0])
		if err != nil {
			return err
		}
		option, err := parsePowerOption(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.b.SetPowerDomainConfig(domain, option); err != nil {
			return fmt.Errorf("failed to configure %s: %w", domain, err)
		}
		s.log.WithField("domain", domain).WithField("option", option).Info("power domain configured")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [value]",
	Short: "Print or set the retained status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			v, err := parseInt32("status", args[0])
			if err != nil {
				return err
			}
			return s.b.SetStatus(v)
		}
		v, err := s.b.Status()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}
