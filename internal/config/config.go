// Package config loads the site configuration: where content lives, how the
// site presents itself, which feature blocks the landing page shows, and the
// optional serve/history/event integrations.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devopslaunch/siteforge/internal/features"
)

// Config is the application configuration.
type Config struct {
	Site     SiteConfig       `yaml:"site"`
	Content  ContentConfig    `yaml:"content"`
	Output   OutputConfig     `yaml:"output"`
	Serve    ServeConfig      `yaml:"serve,omitempty"`
	History  HistoryConfig    `yaml:"history,omitempty"`
	Events   EventsConfig     `yaml:"events,omitempty"`
	Features []features.Block `yaml:"features,omitempty"`
}

// SiteConfig carries site-level presentation values.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// ContentConfig locates the content and names the internal link prefix.
// Static is a directory of assets (icons, images) copied verbatim into the
// rendered site root.
type ContentConfig struct {
	Root       string `yaml:"root"`
	LinkPrefix string `yaml:"link_prefix,omitempty"`
	Static     string `yaml:"static,omitempty"`
}

// OutputConfig controls rendered output.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr         string   `yaml:"addr,omitempty"`
	Watch        bool     `yaml:"watch,omitempty"`
	RebuildEvery Duration `yaml:"rebuild_every,omitempty"`
}

// Duration wraps time.Duration so YAML values like "5m" decode naturally.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// HistoryConfig enables the build history store when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EventsConfig enables NATS publication of unresolved-link events.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads configuration from the given file. A .env file next to the
// process, if present, is loaded first; environment variables are expanded
// inside the YAML before unmarshaling.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is the common case.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Documentation Site"
	}
	if c.Content.Root == "" {
		c.Content.Root = "content"
	}
	if c.Content.LinkPrefix == "" {
		c.Content.LinkPrefix = "/docs"
	}
	if c.Content.Static == "" {
		c.Content.Static = "static"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = ":8080"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "siteforge.links.unresolved"
	}
	if c.Events.URL == "" {
		c.Events.URL = "nats://127.0.0.1:4222"
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `# siteforge configuration
site:
  title: "DevOps Launchpad"
  description: "Learn Salesforce DevOps, one practice at a time"

content:
  root: content
  link_prefix: /docs
  # Files under this directory are copied verbatim into the site root.
  static: static

output:
  directory: ./site

features:
  - title: "Version Everything"
    description: "Track all metadata and code in git, not in orgs."
  - title: "Automate Deploys"
    description: "Pipelines over change sets."

serve:
  addr: ":8080"
  watch: true

# history:
#   path: siteforge.db

# events:
#   enabled: true
#   url: nats://127.0.0.1:4222
#   subject: siteforge.links.unresolved
`
	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
