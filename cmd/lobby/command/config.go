package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/driver"
	"github.com/pixil98/go-lobby/internal/ux"
)

const (
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = time.Second
)

type Config struct {
	TickInterval string        `json:"tick_interval"`
	Nats         NatsConfig    `json:"nats"`
	Storage      StorageConfig `json:"storage"`
	World        WorldConfig   `json:"world"`
	Bypass       BypassConfig  `json:"bypass"`

	ux.Config
}

// NewConfig returns a config holding every default, ready to be overlaid by a config file.
func NewConfig() *Config {
	return &Config{
		TickInterval: driver.DefaultTickLength.String(),
		Storage: StorageConfig{
			PreferencesPath: "preferences.yml",
		},
		World: WorldConfig{
			Capacity: 100,
		},
		Config: ux.DefaultConfig(),
	}
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < minTickInterval || d > maxTickInterval {
		el.Add(fmt.Errorf("tick_interval must be between %s and %s", minTickInterval, maxTickInterval))
	}

	if c.Hub.Enabled && c.Hub.Region == "" {
		el.Add(fmt.Errorf("hub.region is required when the hub is enabled"))
	}
	if !c.Lobby.SameAsHub && c.Lobby.Region == "" {
		el.Add(fmt.Errorf("lobby.region is required unless same_as_hub is set"))
	}

	el.Add(c.Nats.validate())
	el.Add(c.Storage.validate())
	el.Add(c.World.validate())

	return el.Err()
}

func (c *Config) tickLength() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return driver.DefaultTickLength
	}
	return d
}

type WorldConfig struct {
	Capacity int `json:"capacity"`
}

func (c *WorldConfig) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("world.capacity must be a positive integer")
	}
	return nil
}

// BypassConfig names the permission that excludes an entity from every hub feature.
type BypassConfig struct {
	Permission string `json:"permission"`
}
