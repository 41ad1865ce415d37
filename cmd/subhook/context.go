package main

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"subhook/internal/config"
)

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// serverBaseURL resolves the daemon base URL from --server or the configured
// bind address. A wildcard bind host maps to loopback.
func (c *commandContext) serverBaseURL() (string, error) {
	if c.serverFlag != nil {
		if flag := strings.TrimSpace(*c.serverFlag); flag != "" {
			return strings.TrimRight(flag, "/"), nil
		}
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	host, port, err := net.SplitHostPort(cfg.Server.Bind)
	if err != nil {
		return "", fmt.Errorf("resolve server address: %w", err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}

func (c *commandContext) authToken() string {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return ""
	}
	return cfg.Server.AuthToken
}
