package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies ledger failures. The string value is what clients see.
type Kind string

const (
	KindDuplicateWalletName     Kind = "DuplicateWalletName"
	KindInvalidCredential       Kind = "InvalidCredential"
	KindInsufficientFunds       Kind = "InsufficientFunds"
	KindInvalidAmount           Kind = "InvalidAmount"
	KindSelfTransfer            Kind = "SelfTransfer"
	KindUnknownAddress          Kind = "UnknownAddress"
	KindIneligibleCandidate     Kind = "IneligibleCandidate"
	KindAlreadyVoted            Kind = "AlreadyVoted"
	KindSelfVote                Kind = "SelfVote"
	KindUnknownCandidate        Kind = "UnknownCandidate"
	KindChainIntegrityViolation Kind = "ChainIntegrityViolation"
	KindInvalidInput            Kind = "InvalidInput"
	KindNotValidator            Kind = "NotValidator"
)

// Unmet eligibility requirements reported by IneligibleCandidate errors.
const (
	RequirementMinBalance = "MIN_BALANCE"
	RequirementMinTxCount = "MIN_TX_COUNT"
	RequirementMinAgeDays = "MIN_AGE_DAYS"
	// The wallet was deactivated.
	RequirementActiveWallet = "ACTIVE_WALLET"
)

// Error is a business rule failure. Two errors match with errors.Is when their kinds match,
// so the sentinels below can be used to branch on a failure.
type Error struct {
	Kind    Kind
	Message string
	// Unmet requirements, only set for IneligibleCandidate.
	Unmet []string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDuplicateWalletName     = &Error{Kind: KindDuplicateWalletName}
	ErrInvalidCredential       = &Error{Kind: KindInvalidCredential}
	ErrInsufficientFunds       = &Error{Kind: KindInsufficientFunds}
	ErrInvalidAmount           = &Error{Kind: KindInvalidAmount}
	ErrSelfTransfer            = &Error{Kind: KindSelfTransfer}
	ErrUnknownAddress          = &Error{Kind: KindUnknownAddress}
	ErrIneligibleCandidate     = &Error{Kind: KindIneligibleCandidate}
	ErrAlreadyVoted            = &Error{Kind: KindAlreadyVoted}
	ErrSelfVote                = &Error{Kind: KindSelfVote}
	ErrUnknownCandidate        = &Error{Kind: KindUnknownCandidate}
	ErrChainIntegrityViolation = &Error{Kind: KindChainIntegrityViolation}
	ErrInvalidInput            = &Error{Kind: KindInvalidInput}
	ErrNotValidator            = &Error{Kind: KindNotValidator}
)

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Ineligible builds an IneligibleCandidate error naming every unmet requirement.
func Ineligible(candidate string, unmet []string) *Error {
	return &Error{
		Kind:    KindIneligibleCandidate,
		Message: fmt.Sprintf("%s is not eligible to become a validator: unmet %s", candidate, strings.Join(unmet, ", ")),
		Unmet:   unmet,
	}
}

// KindOf returns the kind of a ledger error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
