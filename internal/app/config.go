package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete configuration for both binaries, loadable from
// environment variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	API      APIConfig
	Terminal TerminalConfig
	Server   ServerConfig
}

// APIConfig points the terminal at its backend.
type APIConfig struct {
	BaseURL string `default:"http://localhost:8080" usage:"POS API base URL" flag:"api-base-url"`
	Token   string `usage:"Bearer token attached to every API request (POS_API_TOKEN)" flag:"api-token"`
}

// TerminalConfig holds the terminal session tunables.
type TerminalConfig struct {
	StaffID        int64         `default:"1"     usage:"Staff id stamped on created and cancelled orders" flag:"staff-id"`
	PollInterval   time.Duration `default:"3s"    usage:"Gateway payment polling period" flag:"poll-interval"`
	DebounceWindow time.Duration `default:"200ms" usage:"Quiet period for the debounced refresh" flag:"debounce-window"`
	PageSize       int           `default:"10"    usage:"Page size for list refreshes" flag:"page-size"`
	CallbackDelay  time.Duration `default:"1s"    usage:"Pause before the post-redirect resync" flag:"callback-delay"`
}

// ServerConfig configures the development stub server.
type ServerConfig struct {
	Addr            string        `default:"0.0.0.0:8080" usage:"Stub server listen address"`
	ShutdownTimeout time.Duration `default:"10s"          usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"config.yaml", "/etc/pos-terminal/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables using
// standard names (PORT) onto the POS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Server.Addr == "0.0.0.0:8080" {
		c.Server.Addr = "0.0.0.0:" + port
	}
}
