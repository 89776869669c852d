package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/callwatch/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "callwatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validConfig() *Config {
	config := NewDefaultConfig()
	config.Router.IP = "192.168.0.1"
	config.Destinations = []models.Destination{
		{Name: "all", Type: models.DestinationSlack, WebhookURL: "https://hooks.slack.com/x"},
	}
	config.Selfs = []models.Self{
		{Name: "自宅", Condition: models.Condition{SelfNumber: "^10$"}},
	}
	return config
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "1m", config.Watcher.Interval)
	assert.Equal(t, 100, config.Watcher.LogRecords)
	assert.Equal(t, "data/checked.json", config.Checkpoint.Path)
	assert.Equal(t, "data/phones.tsv", config.Phonebook.Path)
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("File values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
[server]
port = 9090

[router]
ip = "192.168.0.1"
username = "admin"
password = "secret"

[watcher]
interval = "30s"
`)

		config, err := LoadFromFiles(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, "192.168.0.1", config.Router.IP)
		assert.Equal(t, "30s", config.Watcher.Interval)
		// Untouched sections keep their defaults
		assert.Equal(t, "data/checked.json", config.Checkpoint.Path)
	})

	t.Run("Later files override earlier ones", func(t *testing.T) {
		base := writeConfig(t, `
[server]
port = 9090
[router]
ip = "192.168.0.1"
`)
		override := writeConfig(t, `
[server]
port = 9999
`)

		config, err := LoadFromFiles(base, override)
		require.NoError(t, err)

		assert.Equal(t, 9999, config.Server.Port)
		assert.Equal(t, "192.168.0.1", config.Router.IP, "base file value must survive")
	})

	t.Run("Destinations and selfs parse from TOML arrays", func(t *testing.T) {
		path := writeConfig(t, `
[router]
ip = "192.168.0.1"

[[destinations]]
name = "discord"
type = "discord-webhook"
webhook_url = "https://discord.com/api/webhooks/x"

[destinations.condition]
direction = "^incoming$"

[[selfs]]
name = "自宅"

[selfs.condition]
self_number = "^10$"
`)

		config, err := LoadFromFiles(path)
		require.NoError(t, err)

		require.Len(t, config.Destinations, 1)
		assert.Equal(t, models.DestinationDiscordWebhook, config.Destinations[0].Type)
		assert.Equal(t, "^incoming$", config.Destinations[0].Condition.Direction)

		require.Len(t, config.Selfs, 1)
		assert.Equal(t, "^10$", config.Selfs[0].Condition.SelfNumber)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("Environment variables override files", func(t *testing.T) {
		path := writeConfig(t, `
[router]
ip = "192.168.0.1"
`)
		t.Setenv("CALLWATCH_ROUTER_IP", "10.0.0.1")
		t.Setenv("CALLWATCH_WATCHER_INTERVAL", "5m")

		config, err := LoadFromFiles(path)
		require.NoError(t, err)

		assert.Equal(t, "10.0.0.1", config.Router.IP)
		assert.Equal(t, "5m", config.Watcher.Interval)
	})

	t.Run("Invalid env interval is ignored", func(t *testing.T) {
		t.Setenv("CALLWATCH_WATCHER_INTERVAL", "every minute")

		config, err := LoadFromFiles()
		require.NoError(t, err)

		assert.Equal(t, "1m", config.Watcher.Interval)
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 7070, "127.0.0.1")
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 7070, config.Server.Port, "zero values must not override")
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestValidate(t *testing.T) {
	t.Run("Valid configuration passes", func(t *testing.T) {
		assert.NoError(t, Validate(validConfig()))
	})

	t.Run("Missing router IP fails", func(t *testing.T) {
		config := validConfig()
		config.Router.IP = ""
		assert.Error(t, Validate(config))
	})

	t.Run("Empty destinations fail", func(t *testing.T) {
		config := validConfig()
		config.Destinations = nil

		err := Validate(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "destinations")
	})

	t.Run("Empty selfs fail", func(t *testing.T) {
		config := validConfig()
		config.Selfs = nil
		assert.Error(t, Validate(config))
	})

	t.Run("Destination shape is checked per type", func(t *testing.T) {
		tests := []struct {
			name string
			dest models.Destination
		}{
			{"webhook without url", models.Destination{Name: "d", Type: models.DestinationDiscordWebhook}},
			{"bot without token", models.Destination{Name: "d", Type: models.DestinationDiscordBot, ChannelID: "1"}},
			{"bot without channel", models.Destination{Name: "d", Type: models.DestinationDiscordBot, Token: "t"}},
			{"slack without url", models.Destination{Name: "d", Type: models.DestinationSlack}},
			{"line without token", models.Destination{Name: "d", Type: models.DestinationLINENotify}},
			{"unknown type", models.Destination{Name: "d", Type: models.DestinationType("pager")}},
		}

		for _, tt := range tests {
			config := validConfig()
			config.Destinations = []models.Destination{tt.dest}
			assert.Error(t, Validate(config), tt.name)
		}
	})

	t.Run("Web push destination needs no credentials", func(t *testing.T) {
		config := validConfig()
		config.Destinations = []models.Destination{
			{Name: "browser", Type: models.DestinationWebPush},
		}
		assert.NoError(t, Validate(config))
	})

	t.Run("Bad condition regex fails at startup", func(t *testing.T) {
		config := validConfig()
		config.Destinations[0].Condition.CallerNumber = "("

		err := Validate(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "caller_number")
	})

	t.Run("Bad watcher interval fails", func(t *testing.T) {
		config := validConfig()
		config.Watcher.Interval = "every minute"
		assert.Error(t, Validate(config))
	})
}
