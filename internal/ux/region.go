package ux

import (
	"strings"

	"github.com/pixil98/go-lobby/internal/platform"
)

// LocationProvider reports where an entity currently is.
type LocationProvider interface {
	Location(id platform.EntityId) (platform.Location, bool)
}

// RegionClassifier decides whether an entity counts as inside the hub. It has no side
// effects and may be called at any frequency.
type RegionClassifier struct {
	hub       HubConfig
	lobby     LobbyConfig
	regions   []string
	locations LocationProvider
	bypass    platform.BypassPredicate
}

func NewRegionClassifier(cfg Config, locations LocationProvider, bypass platform.BypassPredicate) *RegionClassifier {
	var regions []string
	for _, r := range cfg.UX.Regions {
		if strings.TrimSpace(r) != "" {
			regions = append(regions, r)
		}
	}

	return &RegionClassifier{
		hub:       cfg.Hub,
		lobby:     cfg.Lobby,
		regions:   regions,
		locations: locations,
		bypass:    bypass,
	}
}

// IsMember checks, in order: the hub feature switch, the bypass predicate, whether the
// entity's location is known, and finally the region rule.
func (c *RegionClassifier) IsMember(id platform.EntityId) bool {
	if !c.hub.Enabled {
		return false
	}
	if c.bypass != nil && c.bypass(id) {
		return false
	}
	loc, ok := c.locations.Location(id)
	if !ok {
		return false
	}
	return c.MatchRegion(loc.Region)
}

// MatchRegion applies the region rule alone. An explicit region list replaces the
// hub/lobby names entirely.
func (c *RegionClassifier) MatchRegion(region string) bool {
	if region == "" {
		return false
	}

	if len(c.regions) > 0 {
		for _, r := range c.regions {
			if strings.EqualFold(r, region) {
				return true
			}
		}
		return false
	}

	if sameRegion(c.hub.Region, region) {
		return true
	}
	return c.lobby.SameAsHub && sameRegion(c.lobby.Region, region)
}

func sameRegion(configured, actual string) bool {
	return strings.TrimSpace(configured) != "" && strings.EqualFold(configured, actual)
}
