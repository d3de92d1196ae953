package service

import "github.com/Luismorlan/dept_ledger/model"

type CreateWalletRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Credentials identify the caller of every authenticated method.
type Credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

type WalletResponse struct {
	Address     string `json:"address"`
	Department  string `json:"department"`
	Balance     uint64 `json:"balance"`
	IsValidator bool   `json:"is_validator"`
	// Epoch seconds.
	CreatedAt int64 `json:"created_at"`
}

type GetBalanceRequest struct {
	Credentials
}

type GetBalanceResponse struct {
	Balance uint64 `json:"balance"`
}

type TransferRequest struct {
	Credentials
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
}

type BranchTransferRequest struct {
	Credentials
	Vendor string `json:"vendor"`
	Amount uint64 `json:"amount"`
}

type TransferResponse struct {
	Receipt model.Receipt `json:"receipt"`
}

type RequestValidatorRequest struct {
	Credentials
}

type VoteRequest struct {
	Credentials
	Candidate string `json:"candidate"`
}

type CandidacyResponse struct {
	Status model.CandidacyStatus `json:"status"`
}

type ResignRequest struct {
	Credentials
}

type ResignResponse struct{}

type ListValidatorsRequest struct{}

type ListValidatorsResponse struct {
	Validators []string            `json:"validators"`
	Pending    map[string][]string `json:"pending"`
}

type GetChainHeightsRequest struct{}

type GetChainHeightsResponse struct {
	// Chain id to number of blocks.
	Heights map[string]int `json:"heights"`
}
