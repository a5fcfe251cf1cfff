// Package config provides functionality for managing configuration options
// for the application using command-line flags, a .env file, environment
// variables, and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the development server's listening address (ip:port).
	Addr string

	// BaseURL is the platform API base, including the deployment path
	// prefix (e.g. http://localhost:8080/api).
	BaseURL string

	// SocketURL is the activity feed endpoint. When empty it is derived
	// from BaseURL by swapping the scheme to ws/wss and appending
	// /ws/activity, mirroring the same-origin behavior of the web client.
	SocketURL string

	// StateDir is where the client keeps its persisted session keys.
	StateDir string

	// LogLevel sets the zap level for both binaries.
	LogLevel string

	// Config is the path to the JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run devserver on ip:port")
	flag.StringVar(&options.BaseURL, "url", "http://localhost:8080/api", "platform API base URL")
	flag.StringVar(&options.SocketURL, "ws", "", "activity feed URL (derived from -url when empty)")
	flag.StringVar(&options.StateDir, "state", defaultStateDir(), "directory for persisted session state")
	flag.StringVar(&options.LogLevel, "log", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "flagforge"
	}
	return ".flagforge"
}

// Parse parses the command-line flags, the optional .env file, environment
// variables, and the optional JSON config file, and returns a pointer to the
// Options struct containing the resolved configuration values.
func Parse() *Options {
	flag.Parse()

	// A .env file in the working directory seeds the environment, matching
	// the backend's own configuration loading. Absence is not an error.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	// Environment variables take precedence over flags and file values.
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		options.Addr = addr
	}
	if base := os.Getenv("API_BASE_URL"); base != "" {
		options.BaseURL = base
	}
	if ws := os.Getenv("WS_URL"); ws != "" {
		options.SocketURL = ws
	}
	if dir := os.Getenv("STATE_DIR"); dir != "" {
		options.StateDir = dir
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		options.LogLevel = lvl
	}

	if options.SocketURL == "" {
		options.SocketURL = DeriveSocketURL(options.BaseURL)
	}

	return options
}

// DeriveSocketURL maps an API base URL onto the activity feed endpoint at
// the same origin: http→ws, https→wss, any deployment path prefix replaced
// with /ws/activity.
func DeriveSocketURL(baseURL string) string {
	origin := baseURL
	scheme := "ws"
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		scheme = "wss"
		origin = strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		origin = strings.TrimPrefix(baseURL, "http://")
	}
	if i := strings.Index(origin, "/"); i >= 0 {
		origin = origin[:i]
	}
	return scheme + "://" + origin + "/ws/activity"
}
