package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

const HistoryFileDefault = ".goconnecter_history"

// Config holds every tuneable for one shell session.
type Config struct {
	Tick         time.Duration // poll interval of the main loop
	DialTimeout  time.Duration // per-attempt dial bound, zero = OS default
	DrainTimeout time.Duration // shutdown patience for in-flight dials
	HistoryFile  string
}

// ParseFlags parses command-line arguments into a Config.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := pflag.NewFlagSet("go-connecter", pflag.ContinueOnError)
	fs.DurationVar(&cfg.Tick, "tick", 30*time.Millisecond, "poll interval")
	fs.DurationVar(&cfg.DialTimeout, "timeout", 10*time.Second, "dial timeout, 0 for OS default")
	fs.DurationVar(&cfg.DrainTimeout, "drain", 30*time.Second, "how long shutdown waits for in-flight dials")
	fs.StringVar(&cfg.HistoryFile, "history", defaultHistoryFile(), "readline history file, empty to disable")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileDefault)
}
