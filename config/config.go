// Package config assembles the viewer's settings from built-in defaults, an
// optional .env file, VIMY_* environment variables and command-line flags,
// in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/remote"
)

const envPrefix = "VIMY_"

// DefaultEnvFile is read when VIMY_ENV_FILE is unset. A missing file is not
// an error.
const DefaultEnvFile = ".env"

type Config struct {
	Endpoint  string // server base URL
	Transport string // "http" or "ws"
	Codec     string // "json" or "msgpack"

	PollInterval   time.Duration
	RequestTimeout time.Duration
	MaxBackoff     time.Duration // 0 polls at a fixed interval
	StaleAfter     time.Duration // 0 disables the staleness alarm

	WindowWidth  int
	WindowHeight int
	FontPath     string // empty uses the bundled Go font

	RulesPath string // JSON style rules layered over the kind colours
	Filter    string // expr condition; entities failing it are hidden

	LogLevel string
}

func Default() Config {
	return Config{
		Endpoint:       "http://localhost:3000",
		Transport:      remote.TransportHTTP,
		Codec:          "json",
		PollInterval:   time.Second,
		RequestTimeout: 2 * time.Second,
		WindowWidth:    800,
		WindowHeight:   600,
		LogLevel:       "info",
	}
}

// Load builds a Config. args excludes the program name.
func Load(args []string) (Config, error) {
	cfg := Default()

	envFile := os.Getenv(envPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("vimy-viewer", flag.ContinueOnError)
	cfg.bindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) bindFlags(set *flag.FlagSet) {
	set.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "simulation server base URL")
	set.StringVar(&c.Transport, "transport", c.Transport, "transport: http or ws")
	set.StringVar(&c.Codec, "codec", c.Codec, "HTTP payload codec: json or msgpack")
	set.DurationVar(&c.PollInterval, "poll", c.PollInterval, "entity list poll interval")
	set.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "per-request timeout")
	set.DurationVar(&c.MaxBackoff, "max-backoff", c.MaxBackoff, "cap for the poll interval after failures (0 = no backoff)")
	set.DurationVar(&c.StaleAfter, "stale-after", c.StaleAfter, "warn when no poll has succeeded for this long (0 = off)")
	set.IntVar(&c.WindowWidth, "width", c.WindowWidth, "window width")
	set.IntVar(&c.WindowHeight, "height", c.WindowHeight, "window height")
	set.StringVar(&c.FontPath, "font", c.FontPath, "TTF/OTF font file (default: bundled Go font)")
	set.StringVar(&c.RulesPath, "rules", c.RulesPath, "JSON style rules file")
	set.StringVar(&c.Filter, "filter", c.Filter, `only draw entities matching this expression, e.g. 'Owner == "P1"'`)
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENDPOINT":  &c.Endpoint,
		"TRANSPORT": &c.Transport,
		"CODEC":     &c.Codec,
		"FONT":      &c.FontPath,
		"RULES":     &c.RulesPath,
		"FILTER":    &c.Filter,
		"LOG_LEVEL": &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"POLL_INTERVAL":   &c.PollInterval,
		"REQUEST_TIMEOUT": &c.RequestTimeout,
		"MAX_BACKOFF":     &c.MaxBackoff,
		"STALE_AFTER":     &c.StaleAfter,
	}
	var errs []error
	for key, dst := range durations {
		v, ok := lookup(envPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			continue
		}
		*dst = d
	}

	ints := map[string]*int{
		"WINDOW_WIDTH":  &c.WindowWidth,
		"WINDOW_HEIGHT": &c.WindowHeight,
	}
	for key, dst := range ints {
		v, ok := lookup(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

// Validate reports every impossible setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is empty"))
	}
	switch c.Transport {
	case remote.TransportHTTP:
	case remote.TransportWebSocket:
		if c.Codec != "" && c.Codec != "json" {
			errs = append(errs, fmt.Errorf("codec %q is not supported over %s", c.Codec, c.Transport))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if _, err := model.CodecByName(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %v", c.PollInterval))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout))
	}
	if c.MaxBackoff < 0 || c.StaleAfter < 0 {
		errs = append(errs, errors.New("max-backoff and stale-after must not be negative"))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is not positive", c.WindowWidth, c.WindowHeight))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
