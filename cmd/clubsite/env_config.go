package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wizardswiffle/clubsite/internal/config"
	"github.com/wizardswiffle/clubsite/internal/server"
)

// envConfig holds configuration from environment variables.
// Provides deploy-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // CLUBSITE_CONFIG: config file name or path
	Root       string // CLUBSITE_ROOT: site directory
	BaseURL    string // CLUBSITE_BASE_URL: site origin
	Strategy   string // CLUBSITE_STRATEGY: concurrent or sequential
	Workers    int    // CLUBSITE_WORKERS: pages assembled at once
	OutputDir  string // CLUBSITE_OUTPUT: assemble output directory
	Port       int    // PORT: server port, the hosting convention
	PortErr    error  // set when PORT is present but invalid
}

// knownEnvVars lists valid CLUBSITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CLUBSITE_CONFIG":    true,
	"CLUBSITE_ROOT":      true,
	"CLUBSITE_BASE_URL":  true,
	"CLUBSITE_STRATEGY":  true,
	"CLUBSITE_WORKERS":   true,
	"CLUBSITE_OUTPUT":    true,
	"CLUBSITE_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads configuration through getenv.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("CLUBSITE_CONFIG"),
		Root:       getenv("CLUBSITE_ROOT"),
		BaseURL:    getenv("CLUBSITE_BASE_URL"),
		Strategy:   getenv("CLUBSITE_STRATEGY"),
		OutputDir:  getenv("CLUBSITE_OUTPUT"),
	}

	if workers := getenv("CLUBSITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if getenv("PORT") != "" {
		cfg.Port, cfg.PortErr = server.PortFromEnv(getenv)
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized CLUBSITE_*
// variable in environ. Catches typos like CLUBSITE_BASEURL.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "CLUBSITE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides cfg with every variable that is set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by mergeSiteFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	if env.PortErr != nil {
		return env.PortErr
	}

	// Root and base URL are exclusive; the one set here replaces the other.
	if env.Root != "" {
		cfg.Site.Root = env.Root
		cfg.Site.BaseURL = ""
	}
	if env.BaseURL != "" {
		cfg.Site.BaseURL = env.BaseURL
		cfg.Site.Root = ""
	}
	if env.Strategy != "" {
		cfg.Loader.Strategy = env.Strategy
	}
	if env.Port != 0 {
		cfg.Server.Port = env.Port
	}
	return nil
}
