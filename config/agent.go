package config

import (
	"net/url"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const AGENT_ENV_PREFIX = "AGENT"

// AgentConfig configures the field sync agent. Keys are read from AGENT_* variables
// and may be overridden by command flags bound to the same viper instance.
type AgentConfig struct {
	APIURL         string        `mapstructure:"API_URL"`
	APIToken       string        `mapstructure:"API_TOKEN"`
	QueuePath      string        `mapstructure:"QUEUE_PATH"`
	SyncInterval   time.Duration `mapstructure:"SYNC_INTERVAL"`
	ProbeInterval  time.Duration `mapstructure:"PROBE_INTERVAL"`
	Retention      time.Duration `mapstructure:"RETENTION"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

var agentEnvVars = []string{
	"API_URL", "API_TOKEN", "QUEUE_PATH",
	"SYNC_INTERVAL", "PROBE_INTERVAL", "RETENTION", "REQUEST_TIMEOUT",
}

func NewAgentViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(AGENT_ENV_PREFIX)
	v.AutomaticEnv()

	v.SetDefault("API_URL", "http://localhost:8280")
	v.SetDefault("QUEUE_PATH", "vistoria-agent.db")
	v.SetDefault("SYNC_INTERVAL", "5m")
	v.SetDefault("PROBE_INTERVAL", "15s")
	v.SetDefault("RETENTION", "168h")
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	log := logger.New("config").Function("NewAgentViper")
	for _, env := range agentEnvVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", AGENT_ENV_PREFIX+"_"+env, "error", err)
		}
	}

	return v
}

func NewAgent(v *viper.Viper) (AgentConfig, error) {
	log := logger.New("config").Function("NewAgent")

	var config AgentConfig
	if err := v.Unmarshal(&config); err != nil {
		return AgentConfig{}, log.Err("could not unmarshal agent config", err)
	}

	if err := ValidateAgent(config); err != nil {
		return AgentConfig{}, err
	}

	return config, nil
}

func ValidateAgent(config AgentConfig) error {
	log := logger.New("config").Function("ValidateAgent")

	parsed, err := url.Parse(config.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return log.Error("invalid AGENT_API_URL", "url", config.APIURL)
	}

	if config.QueuePath == "" {
		return log.ErrMsg("AGENT_QUEUE_PATH is required")
	}

	if config.SyncInterval <= 0 || config.ProbeInterval <= 0 || config.Retention <= 0 {
		return log.Error("agent intervals must be positive",
			"syncInterval", config.SyncInterval,
			"probeInterval", config.ProbeInterval,
			"retention", config.Retention,
		)
	}

	return nil
}
