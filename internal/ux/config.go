package ux

import "github.com/pixil98/go-lobby/internal/display"

// Config is everything the hub experience reads at construction time.
type Config struct {
	Hub   HubConfig   `json:"hub"`
	Lobby LobbyConfig `json:"lobby"`
	UX    UXConfig    `json:"hub_ux"`
}

type HubConfig struct {
	Enabled bool        `json:"enabled"`
	Region  string      `json:"region"`
	Spawn   SpawnConfig `json:"spawn"`
}

type SpawnConfig struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

type LobbyConfig struct {
	SameAsHub bool   `json:"same_as_hub"`
	Region    string `json:"region"`
}

type UXConfig struct {
	Enabled    bool             `json:"enabled"`
	Regions    []string         `json:"regions"`
	LoreWidth  int              `json:"lore_width"`
	Panel      PanelConfig      `json:"panel"`
	Indicator  IndicatorConfig  `json:"indicator"`
	DoubleJump DoubleJumpConfig `json:"double_jump"`
	Cosmetics  CosmeticsConfig  `json:"cosmetics"`
	Loadout    LoadoutConfig    `json:"loadout"`
	Menu       MenuConfig       `json:"menu"`
}

type PanelConfig struct {
	Enabled     bool     `json:"enabled"`
	Title       string   `json:"title"`
	Lines       []string `json:"lines"`
	UpdateTicks int      `json:"update_ticks"`
}

type IndicatorConfig struct {
	Enabled  bool    `json:"enabled"`
	Title    string  `json:"title"`
	Color    string  `json:"color"`
	Style    string  `json:"style"`
	Progress float64 `json:"progress"`
}

type DoubleJumpConfig struct {
	Enabled         bool        `json:"enabled"`
	VelocityY       float64     `json:"velocity_y"`
	VelocityForward float64     `json:"velocity_forward"`
	CooldownTicks   int         `json:"cooldown_ticks"`
	Sound           SoundConfig `json:"sound"`
}

type SoundConfig struct {
	Enabled bool    `json:"enabled"`
	Name    string  `json:"name"`
	Volume  float64 `json:"volume"`
	Pitch   float64 `json:"pitch"`
}

type CosmeticsConfig struct {
	Enabled     bool            `json:"enabled"`
	UpdateTicks int             `json:"update_ticks"`
	MenuItem    ItemConfig      `json:"menu_item"`
	Gadget      GadgetConfig    `json:"gadget"`
	Particles   ParticlesConfig `json:"particles"`
	Wings       WingsConfig     `json:"wings"`
	Halo        HaloConfig      `json:"halo"`
}

// ItemConfig describes one placeholder item. Empty lore falls back to the item's
// built-in hint text.
type ItemConfig struct {
	Enabled  bool     `json:"enabled"`
	Slot     int      `json:"slot"`
	Material string   `json:"material"`
	Name     string   `json:"name"`
	Lore     []string `json:"lore"`
}

type GadgetConfig struct {
	Slot            int      `json:"slot"`
	Material        string   `json:"material"`
	Name            string   `json:"name"`
	Lore            []string `json:"lore"`
	CooldownMs      int      `json:"cooldown_ms"`
	VelocityY       float64  `json:"velocity_y"`
	VelocityForward float64  `json:"velocity_forward"`
	Particle        string   `json:"particle"`
	ParticleCount   int      `json:"particle_count"`
}

type ParticlesConfig struct {
	Wings string `json:"wings"`
	Trail string `json:"trail"`
	Halo  string `json:"halo"`
	Aura  string `json:"aura"`
}

type WingsConfig struct {
	Points       int     `json:"points"`
	FlapStrength float64 `json:"flap_strength"`
	FlapPeriodMs int     `json:"flap_period_ms"`
}

type HaloConfig struct {
	Radius   float64 `json:"radius"`
	Points   int     `json:"points"`
	PeriodMs int     `json:"period_ms"`
}

type LoadoutConfig struct {
	Enabled          bool         `json:"enabled"`
	ClearInventory   bool         `json:"clear_inventory"`
	Navigation       ItemConfig   `json:"navigation"`
	VisibilityToggle ToggleConfig `json:"visibility_toggle"`
}

type ToggleConfig struct {
	Enabled bool          `json:"enabled"`
	Slot    int           `json:"slot"`
	Show    VariantConfig `json:"show"`
	Hide    VariantConfig `json:"hide"`
}

type VariantConfig struct {
	Material string   `json:"material"`
	Name     string   `json:"name"`
	Lore     []string `json:"lore"`
}

type MenuConfig struct {
	Enabled   bool            `json:"enabled"`
	Title     string          `json:"title"`
	QuickPlay QuickPlayConfig `json:"quick_play"`
}

type QuickPlayConfig struct {
	Enabled bool     `json:"enabled"`
	Slot    int      `json:"slot"`
	Name    string   `json:"name"`
	Lore    []string `json:"lore"`
	Command string   `json:"command"`
}

// DefaultConfig returns the configuration used for every value a config file leaves out.
func DefaultConfig() Config {
	return Config{
		Hub: HubConfig{
			Enabled: true,
			Region:  "hub",
			Spawn:   SpawnConfig{X: 0.5, Y: 120, Z: 0.5},
		},
		Lobby: LobbyConfig{
			SameAsHub: true,
			Region:    "lobby",
		},
		UX: UXConfig{
			Enabled:   true,
			LoreWidth: display.DefaultLoreWidth,
			Panel: PanelConfig{
				Enabled:     true,
				Title:       "&bLobby",
				UpdateTicks: 20,
			},
			Indicator: IndicatorConfig{
				Enabled:  true,
				Title:    "&bLobby",
				Color:    "BLUE",
				Style:    "SOLID",
				Progress: 1.0,
			},
			DoubleJump: DoubleJumpConfig{
				Enabled:         true,
				VelocityY:       0.9,
				VelocityForward: 0.8,
				CooldownTicks:   20,
				Sound: SoundConfig{
					Enabled: true,
					Name:    "ENTITY_BAT_TAKEOFF",
					Volume:  1.0,
					Pitch:   1.2,
				},
			},
			Cosmetics: CosmeticsConfig{
				Enabled:     true,
				UpdateTicks: 2,
				MenuItem: ItemConfig{
					Enabled:  true,
					Slot:     4,
					Material: "ENDER_CHEST",
					Name:     "&b&lCosmetics",
				},
				Gadget: GadgetConfig{
					Slot:            2,
					Material:        "BLAZE_ROD",
					Name:            "&e&lGadget",
					CooldownMs:      2000,
					VelocityY:       0.35,
					VelocityForward: 0.7,
					Particle:        "FIREWORK",
					ParticleCount:   35,
				},
				Particles: ParticlesConfig{
					Wings: "END_ROD",
					Trail: "CLOUD",
					Halo:  "FIREWORK",
					Aura:  "ENCHANT",
				},
				Wings: WingsConfig{
					Points:       9,
					FlapStrength: 0.08,
					FlapPeriodMs: 1500,
				},
				Halo: HaloConfig{
					Radius:   0.45,
					Points:   12,
					PeriodMs: 2000,
				},
			},
			Loadout: LoadoutConfig{
				Enabled: true,
				Navigation: ItemConfig{
					Enabled:  true,
					Slot:     0,
					Material: "COMPASS",
					Name:     "&b&lPlay",
				},
				VisibilityToggle: ToggleConfig{
					Enabled: true,
					Slot:    8,
					Show: VariantConfig{
						Material: "LIME_DYE",
						Name:     "&a&lPlayers: Shown",
					},
					Hide: VariantConfig{
						Material: "GRAY_DYE",
						Name:     "&7&lPlayers: Hidden",
					},
				},
			},
			Menu: MenuConfig{
				Enabled: true,
				Title:   "&bLobby",
				QuickPlay: QuickPlayConfig{
					Enabled: true,
					Slot:    11,
					Name:    "&b&lQuick Play",
					Command: "sw join",
				},
			},
		},
	}
}

// Normalize clamps every numeric knob into its supported range.
func (c *Config) Normalize() {
	u := &c.UX
	u.Panel.UpdateTicks = max(1, u.Panel.UpdateTicks)
	u.Indicator.Progress = clamp01(u.Indicator.Progress)
	if u.LoreWidth <= 0 {
		u.LoreWidth = display.DefaultLoreWidth
	}

	u.DoubleJump.CooldownTicks = max(0, u.DoubleJump.CooldownTicks)

	cos := &u.Cosmetics
	cos.UpdateTicks = max(1, cos.UpdateTicks)
	cos.Gadget.CooldownMs = max(0, cos.Gadget.CooldownMs)
	cos.Gadget.ParticleCount = max(0, cos.Gadget.ParticleCount)
	cos.Wings.Points = max(1, cos.Wings.Points)
	cos.Wings.FlapStrength = clamp01(cos.Wings.FlapStrength)
	cos.Wings.FlapPeriodMs = max(200, cos.Wings.FlapPeriodMs)
	cos.Halo.Radius = clamp01(cos.Halo.Radius)
	cos.Halo.Points = max(3, cos.Halo.Points)
	cos.Halo.PeriodMs = max(500, cos.Halo.PeriodMs)
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
