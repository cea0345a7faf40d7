package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

//go:embed defaults/tiers.yaml
var defaultTiersYAML []byte

// DefaultEngineConfig returns the default engine tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Timing: TimingConfig{
			TickRate: 60,
		},
		Speeds: SpeedConfig{
			Player:       7.5,
			Adversary:    7.0,
			Frightened:   5.0,
			Eaten:        12.0,
			TunnelFactor: 0.5,
		},
		Scoring: ScoringConfig{
			Pellet:         10,
			PowerPellet:    50,
			CaptureCombo:   []int{200, 400, 800, 1600},
			ExtraLifeScore: 10000,
			StartingLives:  3,
		},
		Enforcer: EnforcerConfig{
			FirstThreshold:  20,
			FirstBoost:      1.05,
			SecondThreshold: 10,
			SecondBoost:     1.10,
		},
		Bonus: BonusConfig{
			PelletTrigger: 70,
			DurationTicks: 600,
			BaseValue:     100,
			MaxValue:      1000,
		},
		AI: AIConfig{
			AmbushLead:       4,
			PincerLead:       2,
			ErraticThreshold: 8,
			FormationRadius:  8,
			HistorySize:      16,
		},
	}
}

// DefaultTiers returns the built-in five-tier difficulty table. Capability
// flags follow the tier thresholds: the enforcer boost from tier 2,
// pattern recognition from tier 3, coordination and the external strategy
// channel from tier 4. Tier 5 is permanently in chase.
func DefaultTiers() Tiers {
	return Tiers{Tiers: []TierConfig{
		{
			Tier:            1,
			ScatterTicks:    420,
			ChaseTicks:      1200,
			FrightenedTicks: 360,
		},
		{
			Tier:            2,
			ScatterTicks:    360,
			ChaseTicks:      1320,
			FrightenedTicks: 300,
			EnforcerBoost:   true,
		},
		{
			Tier:               3,
			ScatterTicks:       300,
			ChaseTicks:         1440,
			FrightenedTicks:    240,
			EnforcerBoost:      true,
			PatternRecognition: true,
		},
		{
			Tier:               4,
			ScatterTicks:       240,
			ChaseTicks:         1560,
			FrightenedTicks:    180,
			EnforcerBoost:      true,
			PatternRecognition: true,
			Coordination:       true,
			ExternalStrategy:   true,
			StrategyInterval:   2,
		},
		{
			Tier:               5,
			ScatterTicks:       0,
			ChaseTicks:         1800,
			FrightenedTicks:    120,
			PermanentChase:     true,
			EnforcerBoost:      true,
			PatternRecognition: true,
			Coordination:       true,
			ExternalStrategy:   true,
			StrategyInterval:   1,
		},
	}}
}
