package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscoder()
	c.normalizeWalker()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.Binary = strings.TrimSpace(c.Transcoder.Binary)
	if value, ok := os.LookupEnv("MP4CONVERT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Transcoder.Binary = strings.TrimSpace(value)
	}
	if c.Transcoder.Binary == "" {
		c.Transcoder.Binary = defaultTranscoderBinary
	}
	c.Transcoder.Strict = strings.TrimSpace(c.Transcoder.Strict)
	if c.Transcoder.Strict == "" {
		c.Transcoder.Strict = defaultStrict
	}
	c.Transcoder.Overwrite = strings.ToLower(strings.TrimSpace(c.Transcoder.Overwrite))
	if c.Transcoder.TimeoutMinutes < 0 {
		c.Transcoder.TimeoutMinutes = 0
	}
	if c.Transcoder.StderrTailLines <= 0 {
		c.Transcoder.StderrTailLines = defaultStderrTailLines
	}
}

func (c *Config) normalizeWalker() {
	c.Walker.ErrorPolicy = strings.ToLower(strings.TrimSpace(c.Walker.ErrorPolicy))
	if c.Walker.ErrorPolicy == "" {
		c.Walker.ErrorPolicy = defaultWalkerErrorPolicy
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
