// Package concentration keeps each caster on at most one sustained effect.
package concentration

import (
	"slices"
	"strings"
	"sync"

	"github.com/KirkDiggler/combat-rules-engine/internal/conditions"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"go.uber.org/zap"
)

// Break reasons
const (
	ReasonNewConcentration = "started new concentration"
	ReasonFailedCheck      = "failed concentration check"
	ReasonStatusRemoved    = "concentration status removed"
	ReasonIncapacitated    = "caster incapacitated"
	ReasonCasterRemoved    = "caster removed"
)

// MinimumDC is the floor of a concentration save
const MinimumDC = 10

// EffectLink ties a concentration to a status on some target and,
// optionally, to an externally owned surface
type EffectLink struct {
	StatusID          string
	TargetID          string
	SurfaceInstanceID string
}

// Info describes one caster's concentration
type Info struct {
	CasterID string
	ActionID string
	StatusID string
	// TargetID carries the main status; empty means the caster
	TargetID string
	Links    []EffectLink
}

func (i Info) statusTarget() string {
	if i.TargetID == "" {
		return i.CasterID
	}
	return i.TargetID
}

// CheckResult is the outcome of a concentration save
type CheckResult struct {
	DC         int
	Roll       int
	Total      int
	Maintained bool
}

// Config holds the system's collaborators. Statuses and Engine are required.
type Config struct {
	Statuses *statuses.Manager
	Engine   *resolution.Engine
	Bus      *events.Bus
	Surfaces SurfaceRemover
	// SurfaceActions lists actions whose surfaces are cleared by creator
	// when a concentration carries no explicit surface link
	SurfaceActions []string
	SaveBonus      int
	// BonusFor adds a per-caster modifier to the save
	BonusFor func(casterID string) int
	Logger   *zap.Logger
}

// System tracks concentration per caster
type System struct {
	mu     sync.RWMutex
	active map[string]Info

	statuses       *statuses.Manager
	engine         *resolution.Engine
	bus            *events.Bus
	surfaces       SurfaceRemover
	surfaceActions map[string]struct{}
	saveBonus      int
	bonusFor       func(string) int
	subs           []events.SubscriptionID
	logger         *zap.Logger
}

// NewSystem creates a concentration system
func NewSystem(cfg *Config) (*System, error) {
	if cfg == nil || cfg.Statuses == nil || cfg.Engine == nil {
		return nil, dnderr.InvalidArgumentf("concentration requires a status manager and engine")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	actions := make(map[string]struct{}, len(cfg.SurfaceActions))
	for _, a := range cfg.SurfaceActions {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			actions[a] = struct{}{}
		}
	}

	return &System{
		active:         make(map[string]Info),
		statuses:       cfg.Statuses,
		engine:         cfg.Engine,
		bus:            cfg.Bus,
		surfaces:       cfg.Surfaces,
		surfaceActions: actions,
		saveBonus:      cfg.SaveBonus,
		bonusFor:       cfg.BonusFor,
		logger:         logger.Named("concentration"),
	}, nil
}

// StartConcentration records info, first breaking any concentration the caster already holds
func (s *System) StartConcentration(info Info) error {
	if info.CasterID == "" {
		return dnderr.InvalidArgumentf("concentration requires a caster")
	}

	if s.IsConcentrating(info.CasterID) {
		s.BreakConcentration(info.CasterID, ReasonNewConcentration)
	}

	stored := info
	stored.Links = append([]EffectLink(nil), info.Links...)

	s.mu.Lock()
	s.active[info.CasterID] = stored
	s.mu.Unlock()

	s.logger.Info("concentration started",
		zap.String("caster", info.CasterID),
		zap.String("action", info.ActionID),
		zap.String("status", info.StatusID),
		zap.Int("links", len(info.Links)))

	s.publish(events.NewEvent(events.ConcentrationStarted).
		WithSource(info.CasterID).
		WithTarget(info.statusTarget()).
		With(events.KeyActionID, info.ActionID).
		With(events.KeyStatusID, info.StatusID))
	return nil
}

// BreakConcentration ends the caster's concentration and releases everything
// tied to it. It reports whether there was anything to break.
func (s *System) BreakConcentration(casterID, reason string) bool {
	s.mu.Lock()
	info, ok := s.active[casterID]
	if ok {
		delete(s.active, casterID)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	if info.StatusID != "" {
		s.statuses.RemoveStatus(info.statusTarget(), info.StatusID)
	}

	explicitSurface := false
	for _, link := range info.Links {
		if link.StatusID != "" && link.TargetID != "" {
			s.statuses.RemoveStatus(link.TargetID, link.StatusID)
		}
		if link.SurfaceInstanceID != "" {
			explicitSurface = true
		}
	}

	s.releaseSurfaces(info, explicitSurface)

	s.logger.Info("concentration broken",
		zap.String("caster", casterID),
		zap.String("action", info.ActionID),
		zap.String("reason", reason))

	s.publish(events.NewEvent(events.ConcentrationBroken).
		WithSource(casterID).
		WithTarget(info.statusTarget()).
		With(events.KeyActionID, info.ActionID).
		With(events.KeyStatusID, info.StatusID).
		With(events.KeyReason, reason))
	return true
}

func (s *System) releaseSurfaces(info Info, explicit bool) {
	if s.surfaces == nil {
		return
	}
	if explicit {
		for _, link := range info.Links {
			if link.SurfaceInstanceID != "" {
				s.surfaces.RemoveSurfaceByID(link.SurfaceInstanceID)
			}
		}
		return
	}
	if _, ok := s.surfaceActions[strings.ToLower(info.ActionID)]; ok {
		removed := s.surfaces.RemoveSurfacesByCreator(info.CasterID)
		s.logger.Debug("surfaces removed by creator",
			zap.String("caster", info.CasterID),
			zap.String("action", info.ActionID),
			zap.Int("removed", removed))
	}
}

// CheckConcentration rolls a save against max(10, damage/2). It returns nil
// when the caster is not concentrating and never breaks concentration itself.
func (s *System) CheckConcentration(casterID string, damageTaken int) (*CheckResult, error) {
	if !s.IsConcentrating(casterID) {
		return nil, nil
	}

	bonus := s.saveBonus
	if s.bonusFor != nil {
		bonus += s.bonusFor(casterID)
	}
	dc := max(MinimumDC, damageTaken/2)

	roll, err := s.engine.RollD20(bonus)
	if err != nil {
		return nil, dnderr.Wrapf(err, "concentration check for %s", casterID)
	}

	result := &CheckResult{
		DC:         dc,
		Roll:       roll.RawTotal,
		Total:      roll.Total,
		Maintained: roll.Total >= dc,
	}
	s.logger.Debug("concentration check",
		zap.String("caster", casterID),
		zap.Int("dc", dc),
		zap.Int("total", result.Total),
		zap.Bool("maintained", result.Maintained))
	return result, nil
}

// ProcessDamageTaken checks concentration after damage and breaks it on a
// failed save. It reports whether concentration was broken.
func (s *System) ProcessDamageTaken(casterID string, damage int) (bool, error) {
	if damage <= 0 {
		return false, nil
	}
	result, err := s.CheckConcentration(casterID, damage)
	if err != nil || result == nil || result.Maintained {
		return false, err
	}
	return s.BreakConcentration(casterID, ReasonFailedCheck), nil
}

// IsConcentrating reports whether casterID holds a concentration
func (s *System) IsConcentrating(casterID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[casterID]
	return ok
}

// GetConcentratedEffect returns the caster's concentration
func (s *System) GetConcentratedEffect(casterID string) (Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.active[casterID]
	return info, ok
}

// Attach wires damage, status removal and incapacitation to the system
func (s *System) Attach(bus *events.Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append(s.subs,
		bus.Subscribe(events.DamageApplied, s.onDamageApplied),
		bus.Subscribe(events.StatusRemoved, s.onStatusRemoved),
		bus.Subscribe(events.StatusApplied, s.onStatusApplied),
	)
}

// Detach removes the subscriptions made by Attach
func (s *System) Detach(bus *events.Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.subs {
		bus.Unsubscribe(id)
	}
	s.subs = nil
}

func (s *System) onDamageApplied(e *events.Event) error {
	amount, _ := e.GetInt(events.KeyAmount)
	_, err := s.ProcessDamageTaken(e.TargetID, amount)
	return err
}

// onStatusRemoved ends a concentration whose main status was removed by something else.
// A replaced instance only ends the concentration of the caster who applied it, and
// leaves the replacing instance on the target.
func (s *System) onStatusRemoved(e *events.Event) error {
	statusID, _ := e.GetString(events.KeyStatusID)
	reason, _ := e.GetString(events.KeyReason)
	replaced := reason == statuses.ReasonReplaced

	s.mu.Lock()
	var casters []string
	for caster, info := range s.active {
		if !strings.EqualFold(info.StatusID, statusID) || info.statusTarget() != e.TargetID {
			continue
		}
		if replaced {
			if caster != e.SourceID {
				continue
			}
			info.StatusID = ""
			s.active[caster] = info
		}
		casters = append(casters, caster)
	}
	s.mu.Unlock()
	slices.Sort(casters)

	for _, caster := range casters {
		s.BreakConcentration(caster, ReasonStatusRemoved)
	}
	return nil
}

func (s *System) onStatusApplied(e *events.Event) error {
	statusID, _ := e.GetString(events.KeyStatusID)
	if conditions.IsIncapacitating(statusID) && s.IsConcentrating(e.TargetID) {
		s.BreakConcentration(e.TargetID, ReasonIncapacitated)
	}
	return nil
}

func (s *System) publish(evt *events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(evt); err != nil {
		s.logger.Warn("concentration event handlers failed", zap.Error(err))
	}
}
