package config

import (
	"fmt"
	"sort"
	"strconv"
)

// field binds a dotted config key to its accessors.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var fields = map[string]field{
	"papers_file":       stringField(func(c *Config) *string { return &c.PapersFile }),
	"snapshot_file":     stringField(func(c *Config) *string { return &c.SnapshotFile }),
	"user_agent":        stringField(func(c *Config) *string { return &c.UserAgent }),
	"max_retries":       intField(func(c *Config) *int { return &c.MaxRetries }),
	"arxiv.base_url":    stringField(func(c *Config) *string { return &c.Arxiv.BaseURL }),
	"arxiv.keyword":     stringField(func(c *Config) *string { return &c.Arxiv.Keyword }),
	"arxiv.max_results": intField(func(c *Config) *int { return &c.Arxiv.MaxResults }),
	"arxiv.rate_limit":  floatField(func(c *Config) *float64 { return &c.Arxiv.RateLimit }),
	"s2.base_url":       stringField(func(c *Config) *string { return &c.S2.BaseURL }),
	"s2.api_key":        stringField(func(c *Config) *string { return &c.S2.APIKey }),
	"s2.rate_limit":     floatField(func(c *Config) *float64 { return &c.S2.RateLimit }),
	"s2.depth":          intField(func(c *Config) *int { return &c.S2.Depth }),
	"s2.page_size":      intField(func(c *Config) *int { return &c.S2.PageSize }),
	"s2.max_pages":      intField(func(c *Config) *int { return &c.S2.MaxPages }),
	"s2.filter":         stringField(func(c *Config) *string { return &c.S2.Filter }),
	"log.level":         stringField(func(c *Config) *string { return &c.Log.Level }),
	"log.format":        stringField(func(c *Config) *string { return &c.Log.Format }),
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func intField(ptr func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func floatField(ptr func(*Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			*ptr(c) = f
			return nil
		},
	}
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "s2.depth".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s (valid: %v)", key, Keys())
	}
	return f.get(c), nil
}

// Set assigns a dotted key and validates the result. The config is left
// unchanged when the new value is rejected.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid: %v)", key, Keys())
	}

	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
