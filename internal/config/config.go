// Package config provides YAML-based engine configuration loading and the
// difficulty tier table for the pursuit engine.
package config

// EngineConfig contains the tuning parameters shared by every session.
type EngineConfig struct {
	Timing   TimingConfig   `yaml:"timing"`
	Speeds   SpeedConfig    `yaml:"speeds"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Enforcer EnforcerConfig `yaml:"enforcer"`
	Bonus    BonusConfig    `yaml:"bonus"`
	AI       AIConfig       `yaml:"ai"`
}

// TimingConfig defines the fixed-timestep parameters.
type TimingConfig struct {
	TickRate int `yaml:"tick_rate"` // simulation ticks per second
}

// SpeedConfig defines entity speeds in tiles per second.
type SpeedConfig struct {
	Player       float64 `yaml:"player"`
	Adversary    float64 `yaml:"adversary"`
	Frightened   float64 `yaml:"frightened"`
	Eaten        float64 `yaml:"eaten"`
	TunnelFactor float64 `yaml:"tunnel_factor"` // adversary slowdown in tunnel outer zones
}

// ScoringConfig defines score values and the extra-life threshold.
type ScoringConfig struct {
	Pellet         int   `yaml:"pellet"`
	PowerPellet    int   `yaml:"power_pellet"`
	CaptureCombo   []int `yaml:"capture_combo"` // escalating per consecutive capture
	ExtraLifeScore int   `yaml:"extra_life_score"`
	StartingLives  int   `yaml:"starting_lives"`
}

// EnforcerConfig defines the escalating speed boost for the designated
// adversary as the board empties.
type EnforcerConfig struct {
	FirstThreshold  int     `yaml:"first_threshold"` // pellets remaining
	FirstBoost      float64 `yaml:"first_boost"`
	SecondThreshold int     `yaml:"second_threshold"`
	SecondBoost     float64 `yaml:"second_boost"`
}

// BonusConfig defines the round bonus item.
type BonusConfig struct {
	PelletTrigger int `yaml:"pellet_trigger"` // pellets eaten before it spawns
	DurationTicks int `yaml:"duration_ticks"`
	BaseValue     int `yaml:"base_value"` // scaled by round, capped
	MaxValue      int `yaml:"max_value"`
}

// AIConfig defines AI tuning shared across tiers.
type AIConfig struct {
	AmbushLead       int `yaml:"ambush_lead"`       // tiles projected ahead of the player
	PincerLead       int `yaml:"pincer_lead"`       // pivot distance for the flanker
	ErraticThreshold int `yaml:"erratic_threshold"` // Manhattan distance for the wanderer
	FormationRadius  int `yaml:"formation_radius"`
	HistorySize      int `yaml:"history_size"` // pattern buffer capacity
}

// TierConfig is the immutable configuration bound to one difficulty tier.
type TierConfig struct {
	Tier int `yaml:"tier"` // ordinal, 1–5

	ScatterTicks    int  `yaml:"scatter_ticks"`
	ChaseTicks      int  `yaml:"chase_ticks"`
	FrightenedTicks int  `yaml:"frightened_ticks"` // power-mode duration
	PermanentChase  bool `yaml:"permanent_chase"`  // never flips back to scatter

	EnforcerBoost      bool `yaml:"enforcer_boost"`
	PatternRecognition bool `yaml:"pattern_recognition"`
	Coordination       bool `yaml:"coordination"`
	ExternalStrategy   bool `yaml:"external_strategy"`
	StrategyInterval   int  `yaml:"strategy_interval"` // min ticks between external requests
}

// Tiers is the ordered tier table, lowest difficulty first.
type Tiers struct {
	Tiers []TierConfig `yaml:"tiers"`
}

// ByOrdinal returns the config for a tier ordinal.
func (t Tiers) ByOrdinal(tier int) (TierConfig, bool) {
	for _, tc := range t.Tiers {
		if tc.Tier == tier {
			return tc, true
		}
	}
	return TierConfig{}, false
}
