package utils

import (
	"fmt"

	"github.com/Luismorlan/dept_ledger/model"
)

// Get block in bytes format. Covers index, previous hash, timestamp and the ordered
// transactions; the branch id is not hashed.
func GetBlockBytes(block *model.Block) []byte {
	var rawBlock []byte
	rawBlock = append(rawBlock, Int64ToBytes(block.Index)...)
	rawBlock = append(rawBlock, StringToBytes(block.PrevHash)...)
	rawBlock = append(rawBlock, Int64ToBytes(block.Timestamp)...)
	rawBlock = append(rawBlock, Uint64ToBytes(uint64(len(block.Transactions)))...)
	for i := 0; i < len(block.Transactions); i++ {
		rawBlock = append(rawBlock, GetTransactionBytes(&block.Transactions[i])...)
	}
	return rawBlock
}

func HashBlock(block *model.Block) string {
	return BytesToHex(SHA256(GetBlockBytes(block)))
}

// Create a sealed block following prev. A nil prev creates the genesis block of the chain.
func CreateNewBlock(chain model.ChainID, prev *model.Block, txs []model.Transaction, timestamp int64) model.Block {
	block := model.Block{
		Index:        0,
		Timestamp:    timestamp,
		PrevHash:     model.GenesisPrevHash,
		BranchID:     chain,
		Transactions: txs,
	}
	if block.Transactions == nil {
		block.Transactions = []model.Transaction{}
	}
	if prev != nil {
		block.Index = prev.Index + 1
		block.PrevHash = prev.Hash
	}
	block.Hash = HashBlock(&block)
	return block
}

// Check a single block against its predecessor.
func ValidateBlock(current, previous *model.Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("block %d: previous hash %s does not match %s", current.Index, current.PrevHash, previous.Hash)
	}
	if expected := HashBlock(current); current.Hash != expected {
		return fmt.Errorf("block %d: hash %s does not match recomputed %s", current.Index, current.Hash, expected)
	}
	return nil
}

// ValidateGenesis checks the first block of a chain.
func ValidateGenesis(genesis *model.Block) error {
	if genesis.Index != 0 {
		return fmt.Errorf("genesis block has index %d", genesis.Index)
	}
	if genesis.PrevHash != model.GenesisPrevHash {
		return fmt.Errorf("genesis block points to %s", genesis.PrevHash)
	}
	if expected := HashBlock(genesis); genesis.Hash != expected {
		return fmt.Errorf("genesis hash %s does not match recomputed %s", genesis.Hash, expected)
	}
	return nil
}
