package model

// ChainID names a chain in the ledger. The main chain is MainChain, every branch is
// identified by the address of the department that owns it.
type ChainID string

const (
	// MainChain is the canonical chain of inter-department transfers.
	MainChain ChainID = "MAIN"
	// GenesisPrevHash is the previous hash every genesis block points to.
	GenesisPrevHash = "0"
)

// BranchOf returns the chain id of the branch owned by address.
func BranchOf(address string) ChainID {
	return ChainID(address)
}

// IsMain reports whether the id names the main chain.
func (c ChainID) IsMain() bool {
	return c == MainChain
}

type Block struct {
	// Position of the block in its chain, genesis is 0.
	Index int64 `json:"index"`
	// Creation time in epoch seconds.
	Timestamp int64 `json:"timestamp"`
	// Hash of the previous block in the same chain, GenesisPrevHash for genesis.
	PrevHash string `json:"previous_hash"`
	// Hex SHA-256 digest of index, previous hash, timestamp and transactions.
	Hash string `json:"hash"`
	// Chain the block belongs to. Informational only, it is not part of the hash.
	BranchID ChainID `json:"branch_id"`
	// Ordered transactions of this block.
	Transactions []Transaction `json:"transactions"`
}

// ChainView is a read-only copy of the whole ledger.
type ChainView struct {
	MainChain []Block            `json:"main_chain"`
	Branches  map[string][]Block `json:"branches"`
}

// BlockRef points to one block of one chain.
type BlockRef struct {
	Chain ChainID `json:"chain"`
	Index int64   `json:"index"`
	Hash  string  `json:"hash"`
}
