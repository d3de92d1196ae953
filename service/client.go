package service

import (
	"context"

	"google.golang.org/grpc"
)

type LedgerServiceClient interface {
	CreateWallet(ctx context.Context, in *CreateWalletRequest, opts ...grpc.CallOption) (*WalletResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error)
	BranchTransfer(ctx context.Context, in *BranchTransferRequest, opts ...grpc.CallOption) (*TransferResponse, error)
	RequestValidator(ctx context.Context, in *RequestValidatorRequest, opts ...grpc.CallOption) (*CandidacyResponse, error)
	Vote(ctx context.Context, in *VoteRequest, opts ...grpc.CallOption) (*CandidacyResponse, error)
	Resign(ctx context.Context, in *ResignRequest, opts ...grpc.CallOption) (*ResignResponse, error)
	ListValidators(ctx context.Context, in *ListValidatorsRequest, opts ...grpc.CallOption) (*ListValidatorsResponse, error)
	GetChainHeights(ctx context.Context, in *GetChainHeightsRequest, opts ...grpc.CallOption) (*GetChainHeightsResponse, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc}
}

// invoke always asks for the JSON codec, whatever options the connection was dialed with.
func (c *ledgerServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *ledgerServiceClient) CreateWallet(ctx context.Context, in *CreateWalletRequest, opts ...grpc.CallOption) (*WalletResponse, error) {
	out := new(WalletResponse)
	if err := c.invoke(ctx, "CreateWallet", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	out := new(GetBalanceResponse)
	if err := c.invoke(ctx, "GetBalance", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	out := new(TransferResponse)
	if err := c.invoke(ctx, "Transfer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) BranchTransfer(ctx context.Context, in *BranchTransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	out := new(TransferResponse)
	if err := c.invoke(ctx, "BranchTransfer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) RequestValidator(ctx context.Context, in *RequestValidatorRequest, opts ...grpc.CallOption) (*CandidacyResponse, error) {
	out := new(CandidacyResponse)
	if err := c.invoke(ctx, "RequestValidator", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Vote(ctx context.Context, in *VoteRequest, opts ...grpc.CallOption) (*CandidacyResponse, error) {
	out := new(CandidacyResponse)
	if err := c.invoke(ctx, "Vote", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Resign(ctx context.Context, in *ResignRequest, opts ...grpc.CallOption) (*ResignResponse, error) {
	out := new(ResignResponse)
	if err := c.invoke(ctx, "Resign", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) ListValidators(ctx context.Context, in *ListValidatorsRequest, opts ...grpc.CallOption) (*ListValidatorsResponse, error) {
	out := new(ListValidatorsResponse)
	if err := c.invoke(ctx, "ListValidators", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetChainHeights(ctx context.Context, in *GetChainHeightsRequest, opts ...grpc.CallOption) (*GetChainHeightsResponse, error) {
	out := new(GetChainHeightsResponse)
	if err := c.invoke(ctx, "GetChainHeights", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
