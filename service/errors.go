package service

import (
	"github.com/Luismorlan/dept_ledger/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps a ledger error kind to a gRPC status code.
func Code(kind model.Kind) codes.Code {
	switch kind {
	case model.KindInvalidInput, model.KindInvalidAmount, model.KindSelfTransfer, model.KindSelfVote:
		return codes.InvalidArgument
	case model.KindInvalidCredential:
		return codes.Unauthenticated
	case model.KindNotValidator:
		return codes.PermissionDenied
	case model.KindUnknownAddress, model.KindUnknownCandidate:
		return codes.NotFound
	case model.KindDuplicateWalletName, model.KindAlreadyVoted:
		return codes.AlreadyExists
	case model.KindInsufficientFunds, model.KindIneligibleCandidate:
		return codes.FailedPrecondition
	case model.KindChainIntegrityViolation:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error carrying its kind and message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	kind := model.KindOf(err)
	if kind == "" {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Errorf(Code(kind), "%s: %s", kind, err.Error())
}
