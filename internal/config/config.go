package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores client settings.
type Config struct {
	APIBaseURL    string
	StatePath     string
	PollInterval  time.Duration
	RedirectDelay time.Duration
	ListenAddr    string
	Log           Log
	ORS           ORS
	Console       Console
	RateLimit     RateLimit
}

// Console stores credentials for non-loopback access to the local console.
// Both empty means loopback only.
type Console struct {
	User string
	Pass string
}

// RateLimit stores the console write-route limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Log stores logger settings.
type Log struct {
	Level  string
	Format string
}

// ORS stores OpenRouteService settings. An empty APIKey disables routed distances.
type ORS struct {
	APIKey  string
	BaseURL string
}

// Load reads configuration in order: .env (if present) → environment → command line flags.
func Load() (*Config, error) {
	return LoadFrom(pflag.CommandLine, os.Args[1:])
}

// LoadFrom is Load with an explicit flag set and argument list.
// Flags already registered on fs by the caller are parsed together with the config flags.
func LoadFrom(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		APIBaseURL:    envString("PARCELBEE_API_URL", defaultAPIBaseURL),
		StatePath:     envString("PARCELBEE_STATE", defaultStatePath),
		ListenAddr:    envString("PARCELBEE_LISTEN", ""),
		Log:           Log{Level: envString("LOG_LEVEL", defaultLog.Level), Format: envString("LOG_FORMAT", defaultLog.Format)},
		ORS:           ORS{APIKey: envString("ORS_API_KEY", ""), BaseURL: envString("ORS_BASE_URL", defaultORSBaseURL)},
		Console:       Console{User: envString("PARCELBEE_CONSOLE_USER", ""), Pass: envString("PARCELBEE_CONSOLE_PASS", "")},
		PollInterval:  defaultPollInterval,
		RedirectDelay: defaultRedirectDelay,
		RateLimit:     defaultRateLimit,
	}

	var err error
	if cfg.PollInterval, err = envDuration("PARCELBEE_POLL_INTERVAL", defaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.RedirectDelay, err = envDuration("PARCELBEE_REDIRECT_DELAY", defaultRedirectDelay); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Enabled, err = envBool("PARCELBEE_RATE_LIMIT", defaultRateLimit.Enabled); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Rate, err = envFloat("PARCELBEE_RATE_LIMIT_RPS", defaultRateLimit.Rate); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = envInt("PARCELBEE_RATE_LIMIT_BURST", defaultRateLimit.Burst); err != nil {
		return nil, err
	}

	flags.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "backend API base URL")
	flags.StringVar(&cfg.StatePath, "state", cfg.StatePath, "path to the persistent session database")
	flags.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "delivery list refresh interval")
	flags.DurationVar(&cfg.RedirectDelay, "redirect-delay", cfg.RedirectDelay, "delay before redirecting to login after 401")
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address for the local console server (watch only)")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: json or zap")
	flags.StringVar(&cfg.ORS.APIKey, "ors-key", cfg.ORS.APIKey, "OpenRouteService API key")
	flags.BoolVar(&cfg.RateLimit.Enabled, "rate-limit", cfg.RateLimit.Enabled, "throttle console write routes")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", c.PollInterval)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("invalid redirect delay: %s", c.RedirectDelay)
	}
	if strings.TrimSpace(c.StatePath) == "" {
		return errors.New("state path is empty")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if (c.Console.User == "") != (c.Console.Pass == "") {
		return errors.New("console user and password must be set together")
	}
	switch c.Log.Format {
	case "json", "zap":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
