package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindAuctionClosed     ErrorKind = "AUCTION_CLOSED"
	KindAlreadyAwarded    ErrorKind = "ALREADY_AWARDED"
	KindWinnerHasNoBid    ErrorKind = "WINNER_HAS_NO_BID"
	KindProfileIncomplete ErrorKind = "PROFILE_INCOMPLETE"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
	KindAwardConflict     ErrorKind = "AWARD_CONFLICT"
)

// Error is the single domain error type. Callers branch on Kind, either with
// errors.Is against the sentinels below or errors.As for the details.
type Error struct {
	Kind          ErrorKind
	Message       string
	BidNumber     string
	MissingFields []string
}

func (e *Error) Error() string {
	if e.BidNumber != "" {
		return fmt.Sprintf("%s (bid %s)", e.Message, e.BidNumber)
	}
	return e.Message
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrAuctionClosed     = &Error{Kind: KindAuctionClosed, Message: "auction closed - bidding period has expired"}
	ErrAlreadyAwarded    = &Error{Kind: KindAlreadyAwarded, Message: "auction already awarded, use re-award to change the winner"}
	ErrWinnerHasNoBid    = &Error{Kind: KindWinnerHasNoBid, Message: "winner must have an existing bid for this auction"}
	ErrProfileIncomplete = &Error{Kind: KindProfileIncomplete, Message: "carrier profile incomplete"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrAwardConflict     = &Error{Kind: KindAwardConflict, Message: "award changed concurrently, reload and retry"}
)

func NewError(kind ErrorKind, bidNumber, message string) *Error {
	return &Error{Kind: kind, BidNumber: bidNumber, Message: message}
}

func AuctionClosed(bidNumber, reason string) *Error {
	return NewError(KindAuctionClosed, bidNumber, reason)
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func ProfileIncomplete(missing []string) *Error {
	return &Error{
		Kind:          KindProfileIncomplete,
		Message:       "profile incomplete, please complete: " + strings.Join(missing, ", "),
		MissingFields: missing,
	}
}

// KindOf returns the domain kind of err, or "" for infrastructure failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
