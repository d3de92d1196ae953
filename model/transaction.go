package model

type Transaction struct {
	// Unique id of the transaction, used to deduplicate mirrored copies across chains.
	ID       string `json:"tx_id"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
	// Epoch seconds.
	Timestamp int64 `json:"timestamp"`
}

// Receipt is returned once a transaction is committed to every chain it belongs to.
type Receipt struct {
	TransactionID string `json:"tx_id"`
	// Index of the block holding the transaction on its primary chain: the main chain for
	// transfers, the owner's branch for branch transfers.
	BlockIndex int64   `json:"block_index"`
	Hash       string  `json:"hash"`
	Chain      ChainID `json:"chain"`
	// Every block the transaction was written to.
	Blocks []BlockRef `json:"blocks"`
	Amount uint64     `json:"amount"`
}
