package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds the server settings. Every flag defaults to its CHESS_*
// environment variable, then to a built-in value.
type Config struct {
	Addr         string
	AllowOrigins string
	DataDir      string // empty keeps the archive in memory
	LogLevel     zerolog.Level
	LogPretty    bool
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("chess-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addr := fs.String("addr", envOr(getenv, "CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", envOr(getenv, "CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	dataDir := fs.String("data", envOr(getenv, "CHESS_DATA_DIR", ""), "badger directory for the game archive (empty: in memory)")
	level := fs.String("log-level", envOr(getenv, "CHESS_LOG_LEVEL", "info"), "log level: trace, debug, info, warn, error")
	prettyDefault, err := envBool(getenv, "CHESS_LOG_PRETTY")
	if err != nil {
		return Config{}, err
	}
	pretty := fs.Bool("log-pretty", prettyDefault, "human readable console logs")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(*level))
	if err != nil || lvl == zerolog.NoLevel {
		return Config{}, fmt.Errorf("invalid log level %q", *level)
	}

	return Config{
		Addr:         *addr,
		AllowOrigins: *origins,
		DataDir:      *dataDir,
		LogLevel:     lvl,
		LogPretty:    *pretty,
	}, nil
}

// Logger builds the process logger described by c.
func (c Config) Logger(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	if c.LogPretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(c.LogLevel).With().Timestamp().Logger()
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string) (bool, error) {
	v := getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
