package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"mixcrate/internal/config"
	"mixcrate/internal/library"
	"mixcrate/internal/logging"
)

// commandContext lazily loads shared state for subcommands: the configuration
// and, for commands that talk to a running daemon, an HTTP client.
type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openCache loads the analysis cache read-only for commands that work
// without a daemon.
func (c *commandContext) openCache() (*library.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return library.NewCache(cfg.CacheFilePath(), logging.NewNop()), nil
}

func (c *commandContext) apiBase() (string, error) {
	if c.apiFlag != nil && strings.TrimSpace(*c.apiFlag) != "" {
		return "http://" + strings.TrimSpace(*c.apiFlag), nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Paths.APIBind, nil
}

var apiClient = &http.Client{Timeout: 10 * time.Second}

// callAPI performs one round trip against the daemon and decodes the JSON
// response into out (which may be nil). Non-2xx responses are surfaced with
// the daemon's error message.
func (c *commandContext) callAPI(method, path string, body io.Reader, out any) error {
	base, err := c.apiBase()
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("is mixcrated running? %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
