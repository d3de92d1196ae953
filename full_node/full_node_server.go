package full_node

import (
	"context"
	"log"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/service"
	"github.com/Luismorlan/dept_ledger/visualize"
)

// FullNodeServer serves the ledger service over gRPC for wallet clients.
type FullNodeServer struct {
	service.UnimplementedLedgerServiceServer

	fullNode *FullNode
}

func NewFullNodeServer(f *FullNode) *FullNodeServer {
	return &FullNodeServer{fullNode: f}
}

func (sev *FullNodeServer) FullNode() *FullNode {
	return sev.fullNode
}

func walletResponse(a Account) *service.WalletResponse {
	return &service.WalletResponse{
		Address:     a.Wallet.Address,
		Department:  a.Wallet.DisplayName,
		Balance:     a.Balance,
		IsValidator: a.IsValidator,
		CreatedAt:   a.Wallet.CreatedAt.Unix(),
	}
}

func (sev *FullNodeServer) CreateWallet(ctx context.Context, req *service.CreateWalletRequest) (*service.WalletResponse, error) {
	a, err := sev.fullNode.CreateWallet(req.Name, req.Password)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return walletResponse(a), nil
}

func (sev *FullNodeServer) GetBalance(ctx context.Context, req *service.GetBalanceRequest) (*service.GetBalanceResponse, error) {
	a, err := sev.fullNode.Login(req.Address, req.Password)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.GetBalanceResponse{Balance: a.Balance}, nil
}

func (sev *FullNodeServer) Transfer(ctx context.Context, req *service.TransferRequest) (*service.TransferResponse, error) {
	if _, err := sev.fullNode.Login(req.Address, req.Password); err != nil {
		return nil, service.ToStatus(err)
	}
	receipt, err := sev.fullNode.Transfer(req.Address, req.Receiver, req.Amount)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.TransferResponse{Receipt: receipt}, nil
}

func (sev *FullNodeServer) BranchTransfer(ctx context.Context, req *service.BranchTransferRequest) (*service.TransferResponse, error) {
	if _, err := sev.fullNode.Login(req.Address, req.Password); err != nil {
		return nil, service.ToStatus(err)
	}
	receipt, err := sev.fullNode.BranchTransfer(req.Address, req.Vendor, req.Amount)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.TransferResponse{Receipt: receipt}, nil
}

func (sev *FullNodeServer) RequestValidator(ctx context.Context, req *service.RequestValidatorRequest) (*service.CandidacyResponse, error) {
	if _, err := sev.fullNode.Login(req.Address, req.Password); err != nil {
		return nil, service.ToStatus(err)
	}
	s, err := sev.fullNode.RequestValidator(req.Address)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.CandidacyResponse{Status: s}, nil
}

func (sev *FullNodeServer) Vote(ctx context.Context, req *service.VoteRequest) (*service.CandidacyResponse, error) {
	if _, err := sev.fullNode.Login(req.Address, req.Password); err != nil {
		return nil, service.ToStatus(err)
	}
	s, err := sev.fullNode.Vote(req.Address, req.Candidate)
	if err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.CandidacyResponse{Status: s}, nil
}

func (sev *FullNodeServer) Resign(ctx context.Context, req *service.ResignRequest) (*service.ResignResponse, error) {
	if _, err := sev.fullNode.Login(req.Address, req.Password); err != nil {
		return nil, service.ToStatus(err)
	}
	if err := sev.fullNode.Resign(req.Address); err != nil {
		return nil, service.ToStatus(err)
	}
	return &service.ResignResponse{}, nil
}

func (sev *FullNodeServer) ListValidators(ctx context.Context, req *service.ListValidatorsRequest) (*service.ListValidatorsResponse, error) {
	active, pending := sev.fullNode.Validators()
	return &service.ListValidatorsResponse{Validators: active, Pending: pending}, nil
}

func (sev *FullNodeServer) GetChainHeights(ctx context.Context, req *service.GetChainHeightsRequest) (*service.GetChainHeightsResponse, error) {
	heights := make(map[string]int)
	for id, h := range sev.fullNode.Heights() {
		heights[string(id)] = h
	}
	return &service.GetChainHeightsResponse{Heights: heights}, nil
}

// Show renders the last d blocks of every chain and returns the written file.
func (sev *FullNodeServer) Show(d int) (string, error) {
	view, err := sev.fullNode.Chains()
	if err != nil {
		return "", err
	}
	path, err := visualize.Render(view, d, sev.fullNode.config.RenderDir, sev.fullNode.uuid)
	if err != nil {
		log.Println("failed to render chains:", err)
		return "", err
	}
	return path, nil
}

// ResumeChain lifts the halt of a chain by its console name.
func (sev *FullNodeServer) ResumeChain(name string) error {
	return sev.fullNode.Resume(model.ChainID(name))
}
