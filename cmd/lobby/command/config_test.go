package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/prefs"
	"github.com/pixil98/go-testutil"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Config)
		expErr string
	}{
		"defaults are valid": {
			mutate: func(c *Config) {},
		},
		"tick interval unparsable": {
			mutate: func(c *Config) { c.TickInterval = "soon" },
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			mutate: func(c *Config) { c.TickInterval = "1ms" },
			expErr: "tick_interval must be between",
		},
		"tick interval too long": {
			mutate: func(c *Config) { c.TickInterval = "2s" },
			expErr: "tick_interval must be between",
		},
		"hub region missing": {
			mutate: func(c *Config) { c.Hub.Region = "" },
			expErr: "hub.region is required",
		},
		"hub region may be empty when disabled": {
			mutate: func(c *Config) {
				c.Hub.Enabled = false
				c.Hub.Region = ""
			},
		},
		"lobby region missing": {
			mutate: func(c *Config) {
				c.Lobby.SameAsHub = false
				c.Lobby.Region = ""
			},
			expErr: "lobby.region is required",
		},
		"bad start timeout": {
			mutate: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: "parsing start_timeout",
		},
		"bad nats port": {
			mutate: func(c *Config) { c.Nats.Port = 70000 },
			expErr: "out of range",
		},
		"missing preferences path": {
			mutate: func(c *Config) { c.Storage.PreferencesPath = "" },
			expErr: "preferences_path is required",
		},
		"preferences directory missing": {
			mutate: func(c *Config) { c.Storage.PreferencesPath = "/nonexistent-dir/prefs.yml" },
			expErr: "invalid path",
		},
		"bad flush debounce": {
			mutate: func(c *Config) { c.Storage.FlushDebounce = "eventually" },
			expErr: "parsing flush_debounce",
		},
		"zero capacity": {
			mutate: func(c *Config) { c.World.Capacity = 0 },
			expErr: "world.capacity",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestConfig_FileOverlaysDefaults(t *testing.T) {
	raw := `{
		"tick_interval": "100ms",
		"hub": {"region": "spawn"},
		"hub_ux": {"regions": ["spawn", "parkour"], "panel": {"title": "&aWelcome"}},
		"bypass": {"permission": "hub.bypass"}
	}`

	cfg := NewConfig()
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		t.Fatalf("unmarshalling: %v", err)
	}

	testutil.AssertEqual(t, "tick length", cfg.tickLength().String(), "100ms")
	testutil.AssertEqual(t, "hub enabled kept", cfg.Hub.Enabled, true)
	testutil.AssertEqual(t, "hub region", cfg.Hub.Region, "spawn")
	testutil.AssertEqual(t, "regions", cfg.UX.Regions, []string{"spawn", "parkour"})
	testutil.AssertEqual(t, "panel title", cfg.UX.Panel.Title, "&aWelcome")
	testutil.AssertEqual(t, "panel update ticks kept", cfg.UX.Panel.UpdateTicks, 20)
	testutil.AssertEqual(t, "bypass", cfg.Bypass.Permission, "hub.bypass")
	testutil.AssertEqual(t, "capacity", cfg.World.Capacity, 100)
}

func TestBuildWorkers(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.PreferencesPath = t.TempDir() + "/prefs.yml"
	cfg.Nats.Port = -1

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("building workers: %v", err)
	}

	for _, name := range []string{"nats", "driver", "preferences", "bridge", "hub"} {
		_, ok := workers[name]
		testutil.AssertEqual(t, name, ok, true)
	}

	_, err = BuildWorkers("not a config")
	testutil.AssertErrorContains(t, err, "unable to cast config")
}

func TestBuildWorkers_LoadsPreferences(t *testing.T) {
	id := platform.NewEntityId()
	path := filepath.Join(t.TempDir(), "prefs.yml")
	data := id.String() + ":\n  halo: true\n  wings: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing preferences: %v", err)
	}

	cfg := NewConfig()
	cfg.Storage.PreferencesPath = path
	cfg.Nats.Port = -1

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("building workers: %v", err)
	}

	store, ok := workers["preferences"].(*prefs.Store)
	if !ok {
		t.Fatalf("preferences worker is %T, want *prefs.Store", workers["preferences"])
	}
	testutil.AssertEqual(t, "halo loaded", store.Enabled(id, "halo"), true)
	testutil.AssertEqual(t, "wings loaded", store.Enabled(id, "wings"), false)
}
