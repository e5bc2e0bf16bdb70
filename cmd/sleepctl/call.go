package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tinygo.org/x/sleep"
)

func init() {
	rootCmd.AddCommand(callCmd, runCmd, nativesCmd)
}

// script is a list of native calls run in order within one session.
type script struct {
	Calls []scriptCall `yaml:"calls"`
}

type scriptCall struct {
	Native string  `yaml:"native"`
	Args   []int32 `yaml:"args"`
}

func (c scriptCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Native + "(" + strings.Join(args, ", ") + ")"
}

var callCmd = &cobra.Command{
	Use:   "call <native> [args...]",
	Short: "Invoke one native function with integer arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := scriptCall{Native: args[0]}
		for _, a := range args[1:] {
			v, err := parseInt32("argument", a)
			if err != nil {
				return err
			}
			c.Args = append(c.Args, v)
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return runCall(s, c, cmd.OutOrStdout())
	},
}

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run a sequence of native calls",
	Long: `Runs the native calls listed in a YAML file:

  calls:
    - native: set_status
      args: [5]
    - native: deep_sleep_enter
      args: [500]
    - native: get_status

On the sim driver a deep sleep call resets the chip and the remaining calls
run in the next boot. The first failing call stops the run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		var sc script
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("invalid script %s: %w", args[0], err)
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return runScript(s, sc, cmd.OutOrStdout())
	},
}

var nativesCmd = &cobra.Command{
	Use:   "natives",
	Short: "List the native functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		for _, name := range s.natives().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func runScript(s *session, sc script, out io.Writer) error {
	for i, c := range sc.Calls {
		if err := runCall(s, c, out); err != nil {
			return fmt.Errorf("call %d: %w", i+1, err)
		}
	}
	return nil
}

func runCall(s *session, c scriptCall, out io.Writer) error {
	if c.Native == sleep.NativeDeepSleepEnter {
		err := s.deepSleep(func() error {
			_, err := s.natives().Call(c.Native, c.Args...)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
		fmt.Fprintf(out, "%s: woke, cause %s\n", c, s.b.WakeupCause())
		return nil
	}
	v, err := s.natives().Call(c.Native, c.Args...)
	if err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	fmt.Fprintf(out, "%s = %d\n", c, v)
	return nil
}
