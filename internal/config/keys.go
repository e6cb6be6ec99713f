package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Setting keys accepted by Get, Set and Unset.
const (
	KeyAPIURL       = "api.url"
	KeyAPITimeout   = "api.timeout"
	KeyAPIRateLimit = "api.rate_limit"
	KeyDeckLimit    = "deck.limit"
	KeyRetryDelays  = "deck.retry_delays"
	KeyDataDir      = "data_dir"
	keyBindPrefix   = "keys."
)

// SettingKeys lists the scalar keys in display order.
var SettingKeys = []string{KeyAPIURL, KeyAPITimeout, KeyAPIRateLimit, KeyDeckLimit, KeyRetryDelays, KeyDataDir}

// Get returns the raw configured value of key, or "" when unset.
// Key binding overrides are addressed as "keys.<context>:<key>".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyAPIURL:
		return c.API.URL, nil
	case KeyAPITimeout:
		return c.API.Timeout, nil
	case KeyAPIRateLimit:
		if c.API.RateLimit == nil {
			return "", nil
		}
		return strconv.FormatFloat(*c.API.RateLimit, 'g', -1, 64), nil
	case KeyDeckLimit:
		if c.Deck.Limit == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Deck.Limit), nil
	case KeyRetryDelays:
		return strings.Join(c.Deck.RetryDelays, ","), nil
	case KeyDataDir:
		return c.DataDir, nil
	}
	if b, ok := strings.CutPrefix(key, keyBindPrefix); ok && b != "" {
		return c.Keys[b], nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyAPIURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must be an http(s) URL", key)
		}
		c.API.URL = strings.TrimRight(value, "/")
	case KeyAPITimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration like 15s", key)
		}
		c.API.Timeout = value
	case KeyAPIRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number", key)
		}
		c.API.RateLimit = &f
	case KeyDeckLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		c.Deck.Limit = &n
	case KeyRetryDelays:
		var parts []string
		if value != "" {
			parts = strings.Split(value, ",")
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if _, err := parseDelays(parts); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parts == nil {
			parts = []string{}
		}
		c.Deck.RetryDelays = parts
	case KeyDataDir:
		c.DataDir = value
	default:
		b, ok := strings.CutPrefix(key, keyBindPrefix)
		if !ok || !strings.Contains(b, ":") {
			return fmt.Errorf("unknown config key %q", key)
		}
		if c.Keys == nil {
			c.Keys = map[string]string{}
		}
		c.Keys[b] = value
	}
	return nil
}

// Unset removes key so its default applies again.
func (c *Config) Unset(key string) error {
	switch key {
	case KeyAPIURL:
		c.API.URL = ""
	case KeyAPITimeout:
		c.API.Timeout = ""
	case KeyAPIRateLimit:
		c.API.RateLimit = nil
	case KeyDeckLimit:
		c.Deck.Limit = nil
	case KeyRetryDelays:
		c.Deck.RetryDelays = nil
	case KeyDataDir:
		c.DataDir = ""
	default:
		b, ok := strings.CutPrefix(key, keyBindPrefix)
		if !ok {
			return fmt.Errorf("unknown config key %q", key)
		}
		delete(c.Keys, b)
	}
	return nil
}

// Entries returns every configured key with its raw value, scalar keys first
// and key bindings after, both in stable order.
func (c *Config) Entries() [][2]string {
	var out [][2]string
	for _, k := range SettingKeys {
		v, _ := c.Get(k)
		out = append(out, [2]string{k, v})
	}
	binds := make([]string, 0, len(c.Keys))
	for b := range c.Keys {
		binds = append(binds, b)
	}
	sort.Strings(binds)
	for _, b := range binds {
		out = append(out, [2]string{keyBindPrefix + b, c.Keys[b]})
	}
	return out
}
