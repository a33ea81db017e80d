package main

import (
	"fmt"
	"os"
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/offline"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// agent bundles what every subcommand needs once flags and env are resolved.
type agent struct {
	config config.AgentConfig
	queue  *offline.Queue
	remote *offline.APIClient
	engine *offline.Engine
	close  func() error
}

var v = config.NewAgentViper()

func newAgent() (*agent, error) {
	log := logger.New("agent").Function("newAgent")

	cfg, err := config.NewAgent(v)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenSQLite(cfg.QueuePath)
	if err != nil {
		return nil, log.Err("failed to open queue database", err, "path", cfg.QueuePath)
	}

	queue, err := offline.NewQueue(db, offline.WithRetention(cfg.Retention))
	if err != nil {
		return nil, err
	}

	remote := offline.NewAPIClient(cfg.APIURL, cfg.APIToken, cfg.RequestTimeout)

	return &agent{
		config: cfg,
		queue:  queue,
		remote: remote,
		engine: offline.NewEngine(queue, remote),
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

// withAgent opens the agent for one command and always closes the queue database.
func withAgent(fn func(cmd *cobra.Command, args []string, a *agent) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newAgent()
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(); err != nil {
				logger.New("agent").Er("failed to close queue database", err)
			}
		}()
		return fn(cmd, args, a)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agent",
		Short: "Field sync agent for vistoria inspections",
		Long: `Queues inspection edits on the device while offline and replays them
against the vistoria API once the server is reachable again.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "", "vistoria API base URL (AGENT_API_URL)")
	flags.String("token", "", "bearer token used against the API (AGENT_API_TOKEN)")
	flags.String("queue", "", "path of the local queue database (AGENT_QUEUE_PATH)")

	bindFlag(v, "API_URL", flags.Lookup("api-url"))
	bindFlag(v, "API_TOKEN", flags.Lookup("token"))
	bindFlag(v, "QUEUE_PATH", flags.Lookup("queue"))

	root.AddCommand(
		newRunCmd(),
		newSyncCmd(),
		newStatusCmd(),
		newSweepCmd(),
		newResolveCmd(),
		newQueueCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bindFlag lets an explicitly set flag win over the environment and defaults.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		logger.New("agent").Function("bindFlag").Warn("failed to bind flag", "key", key, "error", err)
	}
}
