package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"vistoria/internal/offline"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch connectivity and drain the queue until interrupted",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			log := logger.New("agent").Function("run")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			monitor := offline.NewMonitor(a.engine, a.remote, a.config.ProbeInterval, a.config.SyncInterval)
			if err := monitor.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			log.Info("shutting down agent")
			monitor.Stop()
			return nil
		}),
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay every pending entry once",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			report, ran := a.engine.Drain(cmd.Context())
			if !ran {
				return fmt.Errorf("a drain is already running")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inspections: %d synced, %d failed\n", report.Inspections.Synced, report.Inspections.Failed)
			fmt.Fprintf(out, "items:       %d synced, %d failed\n", report.ItemUpdates.Synced, report.ItemUpdates.Failed)
			fmt.Fprintf(out, "photos:      %d synced, %d failed\n", report.Photos.Synced, report.Photos.Failed)
			fmt.Fprintf(out, "pending:     %d\n", report.Pending)
			return nil
		}),
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many edits are waiting to sync",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			count, err := a.queue.PendingCount(cmd.Context())
			if err != nil {
				return err
			}

			online := a.remote.Health(cmd.Context()) == nil
			fmt.Fprintf(cmd.OutOrStdout(), "pending: %d\nonline:  %t\nqueue:   %s\n", count, online, a.config.QueuePath)
			return nil
		}),
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete synced entries past retention and expired cache entries",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			result, err := a.queue.Sweep(cmd.Context(), a.queue.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries (%d cache)\n", result.Total(), result.CacheEntries)
			return nil
		}),
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <temp-id>",
		Short: "Print the server id assigned to an inspection created offline",
		Args:  cobra.ExactArgs(1),
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			tempID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid temp id %q: %w", args[0], err)
			}

			serverID, found, err := a.engine.ResolveTempID(cmd.Context(), tempID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("inspection %s has not been synced yet", tempID)
			}

			fmt.Fprintln(cmd.OutOrStdout(), serverID)
			return nil
		}),
	}
}
