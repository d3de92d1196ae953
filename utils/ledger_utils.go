package utils

import "github.com/Luismorlan/dept_ledger/model"

// Walk every transaction of the given chains once, skipping mirrored copies that share an id.
func ForEachUniqueTransaction(chains [][]model.Block, fn func(tx *model.Transaction)) {
	seen := make(map[string]bool)
	for _, blocks := range chains {
		for i := range blocks {
			for j := range blocks[i].Transactions {
				tx := &blocks[i].Transactions[j]
				if seen[tx.ID] {
					continue
				}
				seen[tx.ID] = true
				fn(tx)
			}
		}
	}
}

// NetFlow is received minus sent for address over the given chains.
func NetFlow(chains [][]model.Block, address string) int64 {
	var flow int64
	ForEachUniqueTransaction(chains, func(tx *model.Transaction) {
		if tx.Receiver == address {
			flow += int64(tx.Amount)
		}
		if tx.Sender == address {
			flow -= int64(tx.Amount)
		}
	})
	return flow
}

// CountTransactions counts the distinct transactions address took part in.
func CountTransactions(chains [][]model.Block, address string) int {
	count := 0
	ForEachUniqueTransaction(chains, func(tx *model.Transaction) {
		if tx.Sender == address || tx.Receiver == address {
			count++
		}
	})
	return count
}

// ApplyNetFlow adds a signed flow to an opening balance, reporting false if it would go negative.
func ApplyNetFlow(opening uint64, flow int64) (uint64, bool) {
	if flow < 0 && uint64(-flow) > opening {
		return 0, false
	}
	if flow < 0 {
		return opening - uint64(-flow), true
	}
	return opening + uint64(flow), true
}
