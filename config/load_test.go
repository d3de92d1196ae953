package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir, err := ioutil.TempDir("", "ledger-config")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	content := "starting_balance: 500\nvote_threshold: 3\nbranch_requires_validator: false\nhttp_port: \"9000\"\n"
	require.Nil(t, ioutil.WriteFile(path, []byte(content), 0644))

	c, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, uint64(500), *c.StartingBalance)
	assert.Equal(t, 3, *c.VoteThreshold)
	assert.False(t, c.BranchNeedsValidator())
	assert.Equal(t, "9000", c.HTTPPort)

	assert.Equal(t, DefaultGenesisAccount, c.GenesisAccount)
	assert.Equal(t, []string{DefaultGenesisAccount}, c.GenesisValidators)
	assert.Equal(t, uint64(DefaultMinBalance), *c.MinBalance)
	assert.Equal(t, DefaultGRPCPort, c.GRPCPort)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	path := writeConfig(t, "starting_balance: 0\ngenesis_balance: 0\nmin_balance: 0\nmin_tx_count: 0\nmin_age_days: 0\n")

	c, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), *c.StartingBalance)
	assert.Equal(t, uint64(0), *c.GenesisBalance)
	assert.Equal(t, uint64(0), *c.MinBalance)
	assert.Equal(t, 0, *c.MinTxCount)
	assert.Equal(t, time.Duration(0), c.MinAge())
	// Missing fields still get their default.
	assert.Equal(t, DefaultVoteThreshold, *c.VoteThreshold)
}

func TestLoadRejectsUnusableValues(t *testing.T) {
	for _, content := range []string{"vote_threshold: 0\n", "min_tx_count: -1\n", "min_age_days: -3\n"} {
		_, err := Load(writeConfig(t, content))
		assert.NotNil(t, err, content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.NotNil(t, err)
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, uint64(DefaultStartingBalance), *c.StartingBalance)
	assert.True(t, c.BranchNeedsValidator())
	assert.Equal(t, 30*24, int(c.MinAge().Hours()))
}
