package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscoder(); err != nil {
		return err
	}
	if err := c.validateWalker(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscoder() error {
	if c.Transcoder.Binary == "" {
		return errors.New("transcoder.binary must be set")
	}
	switch c.Transcoder.Overwrite {
	case OverwriteAsk, OverwriteYes, OverwriteNo:
	default:
		return fmt.Errorf("transcoder.overwrite: unsupported value %q (want \"\", \"yes\", or \"no\")", c.Transcoder.Overwrite)
	}
	return nil
}

func (c *Config) validateWalker() error {
	switch c.Walker.ErrorPolicy {
	case WalkerPropagate, WalkerSkip:
		return nil
	default:
		return fmt.Errorf("walker.error_policy: unsupported value %q (want %q or %q)", c.Walker.ErrorPolicy, WalkerPropagate, WalkerSkip)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
