package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gisflow/internal/api"
	"gisflow/internal/daemonctl"
)

const (
	daemonStartTimeout = 15 * time.Second
	daemonStopGrace    = 10 * time.Second
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newStartCommand(ctx),
		newStopCommand(ctx),
		newStatusCommand(ctx),
	}
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the workflow daemon in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			result, err := daemonctl.New(cfg).EnsureStarted(cmd.Context(), exe, daemonctl.LaunchOptions{
				ConfigPath: ctx.configPath,
				LogLevel:   ctx.logLevel(),
			}, daemonStartTimeout)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch result.State {
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(out, "Daemon already running (pid %d)\n", result.Status.PID)
			default:
				fmt.Fprintf(out, "Daemon started (pid %d) on %s\n", result.Status.PID, daemonctl.BaseURL(cfg.API.Bind))
			}
			return nil
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background workflow daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := daemonctl.New(cfg).Stop(cmd.Context(), daemonStopGrace)
			out := cmd.OutOrStdout()
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(out, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(out, "Daemon did not exit within %s; killed pid %d\n", daemonStopGrace, result.PID)
				return nil
			}
			fmt.Fprintf(out, "Daemon stopped (pid %d)\n", result.PID)
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and the most recent evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status, err := daemonctl.New(cfg).Status(cmd.Context())
			if err != nil && !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				return err
			}
			if status == nil {
				status = &api.DaemonStatus{}
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			for _, line := range daemonStatusLines(status, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}

func daemonStatusLines(status *api.DaemonStatus, colorize bool) []string {
	if !status.Running {
		return []string{renderStatusLine("Daemon", statusError, "Not running", colorize)}
	}
	lines := []string{
		renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize),
		renderStatusLine("Source", statusInfo, status.Source, colorize),
		renderStatusLine("Cache", statusInfo, status.Cache, colorize),
		renderStatusLine("Timezone", statusInfo, status.Timezone, colorize),
	}
	last := status.LastEvaluation
	switch {
	case last == nil:
		lines = append(lines, renderStatusLine("Last evaluation", statusWarn, "none yet", colorize))
	case last.Error != "":
		lines = append(lines, renderStatusLine("Last evaluation", statusError, last.EvaluatedAt+" "+last.Error, colorize))
	default:
		detail := fmt.Sprintf("%s, %d documents, %d in workflow (%dms)", last.EvaluatedAt, last.Documents, last.Records, last.DurationMS)
		lines = append(lines, renderStatusLine("Last evaluation", statusOK, detail, colorize))
		if len(last.Counts) > 0 {
			lines = append(lines, renderStatusLine("Stages", statusInfo, stageSummary(last.Counts), colorize))
		}
	}
	return lines
}
