package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/pterm/pterm"
)

// Main chain first, then branches by name.
func sortedChains[V any](m map[model.ChainID]V) []model.ChainID {
	ids := make([]model.ChainID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].IsMain() != ids[j].IsMain() {
			return ids[i].IsMain()
		}
		return ids[i] < ids[j]
	})
	return ids
}

func validatorsTable(active []string, pending map[string][]string) (string, error) {
	data := pterm.TableData{{"Department", "State", "Votes"}}
	for _, a := range active {
		data = append(data, []string{a, string(model.Active), "-"})
	}
	candidates := make([]string, 0, len(pending))
	for c := range pending {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)
	for _, c := range candidates {
		votes := "none"
		if len(pending[c]) > 0 {
			votes = strings.Join(pending[c], ", ")
		}
		data = append(data, []string{c, string(model.Pending), votes})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func walletsTable(accounts []full_node.Account) (string, error) {
	data := pterm.TableData{{"Address", "Balance", "Validator", "Registered"}}
	for _, a := range accounts {
		validator := ""
		if a.IsValidator {
			validator = "yes"
		}
		data = append(data, []string{
			a.Wallet.Address,
			fmt.Sprintf("%d", a.Balance),
			validator,
			a.Wallet.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func heightsTable(heights map[model.ChainID]int) (string, error) {
	data := pterm.TableData{{"Chain", "Height"}}
	for _, id := range sortedChains(heights) {
		data = append(data, []string{string(id), fmt.Sprintf("%d", heights[id])})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func healthTable(health map[model.ChainID]full_node.ChainHealth) (string, error) {
	data := pterm.TableData{{"Chain", "Height", "Status"}}
	for _, id := range sortedChains(health) {
		h := health[id]
		state := "ok"
		if h.Err != nil {
			state = "HALTED: " + h.Err.Error()
		}
		data = append(data, []string{string(id), fmt.Sprintf("%d", h.Height), state})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func auditTable(problems map[string]error) (string, error) {
	if len(problems) == 0 {
		return "every balance matches the ledger", nil
	}
	addresses := make([]string, 0, len(problems))
	for a := range problems {
		addresses = append(addresses, a)
	}
	sort.Strings(addresses)
	data := pterm.TableData{{"Address", "Problem"}}
	for _, a := range addresses {
		data = append(data, []string{a, problems[a].Error()})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// Boxed with a title, like every answer of the console.
func boxed(title, body string) string {
	return pterm.DefaultBox.WithTitle(title).WithTitleTopCenter().Sprint(body)
}
