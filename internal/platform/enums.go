package platform

import "strings"

// Material is the closed set of item kinds the hub places in inventories and menus.
type Material string

const (
	MaterialAir                  Material = "AIR"
	MaterialCompass              Material = "COMPASS"
	MaterialClock                Material = "CLOCK"
	MaterialNetherStar           Material = "NETHER_STAR"
	MaterialLimeDye              Material = "LIME_DYE"
	MaterialGrayDye              Material = "GRAY_DYE"
	MaterialEnderChest           Material = "ENDER_CHEST"
	MaterialChest                Material = "CHEST"
	MaterialBlazeRod             Material = "BLAZE_ROD"
	MaterialBlazePowder          Material = "BLAZE_POWDER"
	MaterialFeather              Material = "FEATHER"
	MaterialString               Material = "STRING"
	MaterialGoldNugget           Material = "GOLD_NUGGET"
	MaterialFireworkRocket       Material = "FIREWORK_ROCKET"
	MaterialGrayStainedGlassPane Material = "GRAY_STAINED_GLASS_PANE"
)

var materials = setOf(
	MaterialAir, MaterialCompass, MaterialClock, MaterialNetherStar, MaterialLimeDye,
	MaterialGrayDye, MaterialEnderChest, MaterialChest, MaterialBlazeRod, MaterialBlazePowder,
	MaterialFeather, MaterialString, MaterialGoldNugget, MaterialFireworkRocket,
	MaterialGrayStainedGlassPane,
)

// ParseMaterial returns the material named by raw, or fallback when raw is not recognised.
func ParseMaterial(raw string, fallback Material) Material {
	return parseOr(raw, materials, fallback)
}

// Particle is the closed set of particle kinds cosmetics can emit.
type Particle string

const (
	ParticleEndRod        Particle = "END_ROD"
	ParticleCloud         Particle = "CLOUD"
	ParticleFirework      Particle = "FIREWORK"
	ParticleEnchant       Particle = "ENCHANT"
	ParticleFlame         Particle = "FLAME"
	ParticleHeart         Particle = "HEART"
	ParticleNote          Particle = "NOTE"
	ParticleWitch         Particle = "WITCH"
	ParticleHappyVillager Particle = "HAPPY_VILLAGER"
	ParticleSoulFireFlame Particle = "SOUL_FIRE_FLAME"
	ParticleDragonBreath  Particle = "DRAGON_BREATH"
	ParticlePortal        Particle = "PORTAL"
)

var particles = setOf(
	ParticleEndRod, ParticleCloud, ParticleFirework, ParticleEnchant, ParticleFlame,
	ParticleHeart, ParticleNote, ParticleWitch, ParticleHappyVillager, ParticleSoulFireFlame,
	ParticleDragonBreath, ParticlePortal,
)

// ParseParticle returns the particle named by raw, or fallback when raw is not recognised.
func ParseParticle(raw string, fallback Particle) Particle {
	return parseOr(raw, particles, fallback)
}

// Sound is the closed set of sounds the hub plays back to an entity.
type Sound string

const (
	SoundBatTakeoff          Sound = "ENTITY_BAT_TAKEOFF"
	SoundFireworkLaunch      Sound = "ENTITY_FIREWORK_ROCKET_LAUNCH"
	SoundExperienceOrbPickup Sound = "ENTITY_EXPERIENCE_ORB_PICKUP"
	SoundEnderDragonFlap     Sound = "ENTITY_ENDER_DRAGON_FLAP"
	SoundUIButtonClick       Sound = "UI_BUTTON_CLICK"
)

var sounds = setOf(
	SoundBatTakeoff, SoundFireworkLaunch, SoundExperienceOrbPickup, SoundEnderDragonFlap,
	SoundUIButtonClick,
)

// ParseSound accepts both ENTITY_BAT_TAKEOFF and entity.bat.takeoff spellings.
func ParseSound(raw string, fallback Sound) Sound {
	return parseOr(strings.ReplaceAll(raw, ".", "_"), sounds, fallback)
}

// BarColor is the colour of the shared progress indicator.
type BarColor string

const (
	BarColorPink   BarColor = "PINK"
	BarColorBlue   BarColor = "BLUE"
	BarColorRed    BarColor = "RED"
	BarColorGreen  BarColor = "GREEN"
	BarColorYellow BarColor = "YELLOW"
	BarColorPurple BarColor = "PURPLE"
	BarColorWhite  BarColor = "WHITE"
)

var barColors = setOf(
	BarColorPink, BarColorBlue, BarColorRed, BarColorGreen, BarColorYellow, BarColorPurple,
	BarColorWhite,
)

// ParseBarColor defaults to blue.
func ParseBarColor(raw string) BarColor {
	return parseOr(raw, barColors, BarColorBlue)
}

// BarStyle is the segmentation of the shared progress indicator.
type BarStyle string

const (
	BarStyleSolid       BarStyle = "SOLID"
	BarStyleSegmented6  BarStyle = "SEGMENTED_6"
	BarStyleSegmented10 BarStyle = "SEGMENTED_10"
	BarStyleSegmented12 BarStyle = "SEGMENTED_12"
	BarStyleSegmented20 BarStyle = "SEGMENTED_20"
)

var barStyles = setOf(
	BarStyleSolid, BarStyleSegmented6, BarStyleSegmented10, BarStyleSegmented12,
	BarStyleSegmented20,
)

// ParseBarStyle defaults to solid.
func ParseBarStyle(raw string) BarStyle {
	return parseOr(raw, barStyles, BarStyleSolid)
}

func normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func setOf[T ~string](vals ...T) map[T]struct{} {
	m := make(map[T]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func parseOr[T ~string](raw string, set map[T]struct{}, fallback T) T {
	v := T(normalize(raw))
	if _, ok := set[v]; ok {
		return v
	}
	return fallback
}
