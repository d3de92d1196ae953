package config

import (
	"fmt"
	"time"
)

// This is the global app config for the ledger node. Numeric fields are pointers so that an
// explicit 0 in the YAML file is kept; only missing fields get their default.
type AppConfig struct {
	// Balance credited to every newly registered department wallet.
	StartingBalance *uint64 `yaml:"starting_balance"`
	// The central government account seeded at startup.
	GenesisAccount  string  `yaml:"genesis_account"`
	GenesisPassword string  `yaml:"genesis_password"`
	GenesisBalance  *uint64 `yaml:"genesis_balance"`
	// Addresses that are validators from the start.
	GenesisValidators []string `yaml:"genesis_validators"`

	// Validator eligibility.
	MinBalance    *uint64 `yaml:"min_balance"`
	MinTxCount    *int    `yaml:"min_tx_count"`
	MinAgeDays    *int    `yaml:"min_age_days"`
	VoteThreshold *int    `yaml:"vote_threshold"`

	// Only active validators may move funds out of their branch.
	BranchRequiresValidator *bool `yaml:"branch_requires_validator"`

	HTTPPort   string `yaml:"http_port"`
	GRPCPort   string `yaml:"grpc_port"`
	CORSOrigin string `yaml:"cors_origin"`
	// Directory of the LevelDB journal. Empty keeps everything in memory.
	DataDir string `yaml:"data_dir"`
	// Where the visualizer drops rendered chains.
	RenderDir string `yaml:"render_dir"`
}

const (
	DefaultStartingBalance = 10000
	DefaultGenesisAccount  = "CentralGov"
	DefaultGenesisBalance  = 1000000
	DefaultMinBalance      = 100000
	DefaultMinTxCount      = 5
	DefaultMinAgeDays      = 30
	DefaultVoteThreshold   = 5
	DefaultHTTPPort        = "8000"
	DefaultGRPCPort        = "10000"
)

// Default returns a config with every field set to its default.
func Default() AppConfig {
	c := AppConfig{}
	c.ApplyDefaults()
	return c
}

func uint64Of(v uint64) *uint64 { return &v }

func intOf(v int) *int { return &v }

// ApplyDefaults fills every missing field with its default.
func (c *AppConfig) ApplyDefaults() {
	if c.StartingBalance == nil {
		c.StartingBalance = uint64Of(DefaultStartingBalance)
	}
	if c.GenesisAccount == "" {
		c.GenesisAccount = DefaultGenesisAccount
	}
	if c.GenesisPassword == "" {
		c.GenesisPassword = c.GenesisAccount
	}
	if c.GenesisBalance == nil {
		c.GenesisBalance = uint64Of(DefaultGenesisBalance)
	}
	if len(c.GenesisValidators) == 0 {
		c.GenesisValidators = []string{c.GenesisAccount}
	}
	if c.MinBalance == nil {
		c.MinBalance = uint64Of(DefaultMinBalance)
	}
	if c.MinTxCount == nil {
		c.MinTxCount = intOf(DefaultMinTxCount)
	}
	if c.MinAgeDays == nil {
		c.MinAgeDays = intOf(DefaultMinAgeDays)
	}
	if c.VoteThreshold == nil {
		c.VoteThreshold = intOf(DefaultVoteThreshold)
	}
	if c.BranchRequiresValidator == nil {
		required := true
		c.BranchRequiresValidator = &required
	}
	if c.HTTPPort == "" {
		c.HTTPPort = DefaultHTTPPort
	}
	if c.GRPCPort == "" {
		c.GRPCPort = DefaultGRPCPort
	}
	if c.CORSOrigin == "" {
		c.CORSOrigin = "*"
	}
	if c.RenderDir == "" {
		c.RenderDir = "/tmp"
	}
}

// Validate rejects values no node can run with. Call it after ApplyDefaults.
func (c AppConfig) Validate() error {
	switch {
	case *c.MinTxCount < 0:
		return fmt.Errorf("min_tx_count must not be negative, got %d", *c.MinTxCount)
	case *c.MinAgeDays < 0:
		return fmt.Errorf("min_age_days must not be negative, got %d", *c.MinAgeDays)
	case *c.VoteThreshold < 1:
		return fmt.Errorf("vote_threshold must be at least 1, got %d", *c.VoteThreshold)
	}
	return nil
}

func (c AppConfig) MinAge() time.Duration {
	return time.Duration(*c.MinAgeDays) * 24 * time.Hour
}

func (c AppConfig) BranchNeedsValidator() bool {
	return c.BranchRequiresValidator == nil || *c.BranchRequiresValidator
}
