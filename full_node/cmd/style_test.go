package main

import (
	"errors"
	"testing"
	"time"

	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedChainsPutsMainFirst(t *testing.T) {
	ids := sortedChains(map[model.ChainID]int{"Water": 1, model.MainChain: 3, "Health": 2})
	assert.Equal(t, []model.ChainID{model.MainChain, "Health", "Water"}, ids)
}

func TestTablesListEveryRow(t *testing.T) {
	pterm.DisableColor()

	s, err := validatorsTable([]string{"CentralGov"}, map[string][]string{"Health": {"CentralGov"}, "Water": nil})
	require.Nil(t, err)
	assert.Contains(t, s, "CentralGov")
	assert.Contains(t, s, "Health")
	assert.Contains(t, s, "none")

	s, err = walletsTable([]full_node.Account{{Wallet: model.WalletAccount{Address: "Health", CreatedAt: time.Now()}, Balance: 10000}})
	require.Nil(t, err)
	assert.Contains(t, s, "Health")
	assert.Contains(t, s, "10000")

	s, err = healthTable(map[model.ChainID]full_node.ChainHealth{
		model.MainChain: {Height: 4},
		"Health":        {Height: 2, Err: errors.New("hash mismatch at block 1")},
	})
	require.Nil(t, err)
	assert.Contains(t, s, "HALTED: hash mismatch at block 1")

	s, err = auditTable(nil)
	require.Nil(t, err)
	assert.Equal(t, "every balance matches the ledger", s)
	s, err = auditTable(map[string]error{"Health": errors.New("Health holds 1, ledger says 2")})
	require.Nil(t, err)
	assert.Contains(t, s, "ledger says 2")
}
