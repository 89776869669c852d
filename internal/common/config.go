package common

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/callwatch/internal/models"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig         `toml:"server"`
	Logging      LoggingConfig        `toml:"logging"`
	Watcher      WatcherConfig        `toml:"watcher"`
	Router       RouterConfig         `toml:"router" validate:"required"`
	Checkpoint   CheckpointConfig     `toml:"checkpoint"`
	Phonebook    PhonebookConfig      `toml:"phonebook"`
	GoogleSearch GoogleSearchConfig   `toml:"google_search"`
	Web          WebConfig            `toml:"web"`
	WebPush      WebPushConfig        `toml:"webpush"`
	Destinations []models.Destination `toml:"destinations"`
	Selfs        []models.Self        `toml:"selfs"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// WatcherConfig controls the polling pipeline
type WatcherConfig struct {
	Interval   string `toml:"interval"`    // e.g. "1m" - how often the syslog is polled
	LogRecords int    `toml:"log_records"` // Number of syslog records fetched per cycle
}

// RouterConfig holds credentials for the router dashboard syslog fetch
type RouterConfig struct {
	IP       string `toml:"ip" validate:"required"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type CheckpointConfig struct {
	Path string `toml:"path"` // Checkpoint file holding the last reported call timestamp
}

type PhonebookConfig struct {
	Path string `toml:"path"` // Local TSV phone directory (name <TAB> number); optional
}

// GoogleSearchConfig enables the search-engine identity strategy when
// both fields are set
type GoogleSearchConfig struct {
	Key string `toml:"key"` // Custom Search API key
	CX  string `toml:"cx"`  // Custom Search engine ID
}

// WebConfig configures the subscription API surface
type WebConfig struct {
	Auth WebAuthConfig `toml:"auth"`
}

// WebAuthConfig enables basic auth on the API when both fields are set
type WebAuthConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// WebPushConfig holds web-push persistence paths and the VAPID contact
type WebPushConfig struct {
	KeyPath           string `toml:"key_path"`           // VAPID keypair file (generated on first use)
	SubscriptionsPath string `toml:"subscriptions_path"` // Subscription list file
	Contact           string `toml:"contact"`            // mailto: subject sent with each push
}

// NewDefaultConfig returns configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Watcher: WatcherConfig{
			Interval:   "1m",
			LogRecords: 100,
		},
		Checkpoint: CheckpointConfig{
			Path: "data/checked.json",
		},
		Phonebook: PhonebookConfig{
			Path: "data/phones.tsv",
		},
		WebPush: WebPushConfig{
			KeyPath:           "data/web-push-key.json",
			SubscriptionsPath: "data/subscriptions.json",
			Contact:           "admin@localhost",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier files. Priority: CLI flags > env > last file > ... >
// first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Server configuration
	if port := os.Getenv("CALLWATCH_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CALLWATCH_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("CALLWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CALLWATCH_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Watcher configuration
	if interval := os.Getenv("CALLWATCH_WATCHER_INTERVAL"); interval != "" {
		if _, err := time.ParseDuration(interval); err == nil {
			config.Watcher.Interval = interval
		}
	}
	if records := os.Getenv("CALLWATCH_WATCHER_LOG_RECORDS"); records != "" {
		if n, err := strconv.Atoi(records); err == nil && n > 0 {
			config.Watcher.LogRecords = n
		}
	}

	// Router configuration
	if ip := os.Getenv("CALLWATCH_ROUTER_IP"); ip != "" {
		config.Router.IP = ip
	}
	if username := os.Getenv("CALLWATCH_ROUTER_USERNAME"); username != "" {
		config.Router.Username = username
	}
	if password := os.Getenv("CALLWATCH_ROUTER_PASSWORD"); password != "" {
		config.Router.Password = password
	}

	// Persistence paths
	if path := os.Getenv("CALLWATCH_CHECKPOINT_PATH"); path != "" {
		config.Checkpoint.Path = path
	}
	if path := os.Getenv("CALLWATCH_PHONEBOOK_PATH"); path != "" {
		config.Phonebook.Path = path
	}
	if path := os.Getenv("CALLWATCH_WEBPUSH_KEY_PATH"); path != "" {
		config.WebPush.KeyPath = path
	}
	if path := os.Getenv("CALLWATCH_WEBPUSH_SUBSCRIPTIONS_PATH"); path != "" {
		config.WebPush.SubscriptionsPath = path
	}
	if contact := os.Getenv("CALLWATCH_WEBPUSH_CONTACT"); contact != "" {
		config.WebPush.Contact = contact
	}

	// Google Custom Search credentials
	if key := os.Getenv("CALLWATCH_GOOGLE_SEARCH_KEY"); key != "" {
		config.GoogleSearch.Key = key
	}
	if cx := os.Getenv("CALLWATCH_GOOGLE_SEARCH_CX"); cx != "" {
		config.GoogleSearch.CX = cx
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration structurally. The returned error
// names the first failing check so startup failures are diagnosable
// from the log alone.
func Validate(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if len(config.Destinations) == 0 {
		return fmt.Errorf("config check failed: destinations is not empty")
	}
	for i, d := range config.Destinations {
		if d.Name == "" {
			return fmt.Errorf("config check failed: destinations[%d].name is set", i)
		}
		if err := validateDestinationShape(&d); err != nil {
			return fmt.Errorf("config check failed: destinations[%d] (%s): %w", i, d.Name, err)
		}
		if err := validateCondition(&d.Condition); err != nil {
			return fmt.Errorf("config check failed: destinations[%d] (%s) condition: %w", i, d.Name, err)
		}
	}

	if len(config.Selfs) == 0 {
		return fmt.Errorf("config check failed: selfs is not empty")
	}
	for i, s := range config.Selfs {
		if s.Name == "" {
			return fmt.Errorf("config check failed: selfs[%d].name is set", i)
		}
		if err := validateCondition(&s.Condition); err != nil {
			return fmt.Errorf("config check failed: selfs[%d] (%s) condition: %w", i, s.Name, err)
		}
	}

	if _, err := time.ParseDuration(config.Watcher.Interval); err != nil {
		return fmt.Errorf("config check failed: watcher.interval is a duration: %w", err)
	}

	return nil
}

// validateDestinationShape checks that the credential fields required
// by the destination type are present.
func validateDestinationShape(d *models.Destination) error {
	switch d.Type {
	case models.DestinationDiscordWebhook:
		if d.WebhookURL == "" {
			return fmt.Errorf("discord-webhook requires webhook_url")
		}
	case models.DestinationDiscordBot:
		if d.Token == "" || d.ChannelID == "" {
			return fmt.Errorf("discord-bot requires token and channel_id")
		}
	case models.DestinationSlack:
		if d.WebhookURL == "" {
			return fmt.Errorf("slack requires webhook_url")
		}
	case models.DestinationLINENotify:
		if d.Token == "" {
			return fmt.Errorf("line-notify requires token")
		}
	case models.DestinationWebPush:
		// No credentials; subscriptions are keyed by destination name.
	default:
		return fmt.Errorf("unknown destination type %q", d.Type)
	}
	return nil
}

// validateCondition compiles every configured pattern so bad regexes
// fail at startup instead of silently never matching.
func validateCondition(c *models.Condition) error {
	for field, pattern := range map[string]string{
		"direction":     c.Direction,
		"self_number":   c.SelfNumber,
		"caller_number": c.CallerNumber,
		"status":        c.Status,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", field, pattern, err)
		}
	}
	return nil
}
