// Package service defines the gRPC surface of a ledger node. Messages are plain structs
// carried by a JSON codec registered under CodecName.
package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "ledger.LedgerService"

type LedgerServiceServer interface {
	CreateWallet(context.Context, *CreateWalletRequest) (*WalletResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	BranchTransfer(context.Context, *BranchTransferRequest) (*TransferResponse, error)
	RequestValidator(context.Context, *RequestValidatorRequest) (*CandidacyResponse, error)
	Vote(context.Context, *VoteRequest) (*CandidacyResponse, error)
	Resign(context.Context, *ResignRequest) (*ResignResponse, error)
	ListValidators(context.Context, *ListValidatorsRequest) (*ListValidatorsResponse, error)
	GetChainHeights(context.Context, *GetChainHeightsRequest) (*GetChainHeightsResponse, error)
}

// UnimplementedLedgerServiceServer can be embedded to have forward compatible implementations.
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) CreateWallet(context.Context, *CreateWalletRequest) (*WalletResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateWallet not implemented")
}
func (UnimplementedLedgerServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedLedgerServiceServer) Transfer(context.Context, *TransferRequest) (*TransferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Transfer not implemented")
}
func (UnimplementedLedgerServiceServer) BranchTransfer(context.Context, *BranchTransferRequest) (*TransferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BranchTransfer not implemented")
}
func (UnimplementedLedgerServiceServer) RequestValidator(context.Context, *RequestValidatorRequest) (*CandidacyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RequestValidator not implemented")
}
func (UnimplementedLedgerServiceServer) Vote(context.Context, *VoteRequest) (*CandidacyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Vote not implemented")
}
func (UnimplementedLedgerServiceServer) Resign(context.Context, *ResignRequest) (*ResignResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Resign not implemented")
}
func (UnimplementedLedgerServiceServer) ListValidators(context.Context, *ListValidatorsRequest) (*ListValidatorsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListValidators not implemented")
}
func (UnimplementedLedgerServiceServer) GetChainHeights(context.Context, *GetChainHeightsRequest) (*GetChainHeightsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetChainHeights not implemented")
}

// unary builds the descriptor of one unary method.
func unary[Req any, Resp any](name string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateWallet", LedgerServiceServer.CreateWallet),
		unary("GetBalance", LedgerServiceServer.GetBalance),
		unary("Transfer", LedgerServiceServer.Transfer),
		unary("BranchTransfer", LedgerServiceServer.BranchTransfer),
		unary("RequestValidator", LedgerServiceServer.RequestValidator),
		unary("Vote", LedgerServiceServer.Vote),
		unary("Resign", LedgerServiceServer.Resign),
		unary("ListValidators", LedgerServiceServer.ListValidators),
		unary("GetChainHeights", LedgerServiceServer.GetChainHeights),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger.proto",
}

func RegisterLedgerServiceServer(s *grpc.Server, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}
