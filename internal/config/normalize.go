package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() error {
	bind := strings.TrimSpace(c.Server.Bind)
	if bind == "" {
		bind = defaultBind
	}

	// LISTEN_PORT overrides the configured port. Unset or unparsable values
	// leave the bind address unchanged.
	if raw, ok := os.LookupEnv(ListenPortEnv); ok {
		if port, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && port > 0 && port <= 65535 {
			host, _, err := net.SplitHostPort(bind)
			if err != nil {
				return fmt.Errorf("server.bind: %w", err)
			}
			bind = net.JoinHostPort(host, strconv.Itoa(port))
		}
	}

	c.Server.Bind = bind
	c.Server.AuthToken = strings.TrimSpace(c.Server.AuthToken)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Extractor.Script, err = expandPath(strings.TrimSpace(c.Extractor.Script)); err != nil {
		return fmt.Errorf("extractor.script: %w", err)
	}
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		if c.Logging.Dir, err = expandPath(dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	} else {
		c.Logging.Dir = ""
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
