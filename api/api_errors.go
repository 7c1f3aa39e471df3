package api

import (
	"encoding/json"
	"errors"

	"github.com/filecoin-project/go-jsonrpc"
)

const (
	ENotFound = iota + jsonrpc.FirstUserCode
	ERejected
	ERejectedRemote
	ETimedOut
	EConflict
	ECancelled
	EInfrastructure
	ENotCancellable
	EAmbiguous
)

var (
	RPCErrors = jsonrpc.NewErrors()

	ErrNotSupported = errors.New("method not supported")

	_ error = (*ErrNotFound)(nil)
	_ error = (*ErrRejected)(nil)
	_ error = (*ErrRejectedRemote)(nil)
	_ error = (*ErrTimedOut)(nil)
	_ error = (*ErrConflict)(nil)
	_ error = (*ErrCancelled)(nil)
	_ error = (*ErrInfrastructure)(nil)
	_ error = (*ErrNotCancellable)(nil)
	_ error = (*ErrAmbiguous)(nil)
)

func init() {
	RPCErrors.Register(ENotFound, new(*ErrNotFound))
	RPCErrors.Register(ERejected, new(*ErrRejected))
	RPCErrors.Register(ERejectedRemote, new(*ErrRejectedRemote))
	RPCErrors.Register(ETimedOut, new(*ErrTimedOut))
	RPCErrors.Register(EConflict, new(*ErrConflict))
	RPCErrors.Register(ECancelled, new(*ErrCancelled))
	RPCErrors.Register(EInfrastructure, new(*ErrInfrastructure))
	RPCErrors.Register(ENotCancellable, new(*ErrNotCancellable))
	RPCErrors.Register(EAmbiguous, new(*ErrAmbiguous))
}

// rpcMessage carries the server side error text to the client through the
// JSON-RPC error meta field.
type rpcMessage struct {
	Msg string
}

func (m *rpcMessage) Error() string { return m.Msg }

func (m *rpcMessage) MarshalJSON() ([]byte, error) { return json.Marshal(m.Msg) }

func (m *rpcMessage) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &m.Msg) }

// ErrNotFound signals that a record, request or negotiation does not exist.
type ErrNotFound struct{ rpcMessage }

// ErrRejected signals that contract checks, local or at the notary, refused
// the proposal.
type ErrRejected struct{ rpcMessage }

// ErrRejectedRemote signals that the counterparty refused the proposal.
type ErrRejectedRemote struct{ rpcMessage }

// ErrTimedOut signals that the counterparty did not answer in time.
type ErrTimedOut struct{ rpcMessage }

// ErrConflict signals that the notary saw an input already consumed.
type ErrConflict struct{ rpcMessage }

// ErrCancelled signals that the negotiation was cancelled.
type ErrCancelled struct{ rpcMessage }

// ErrInfrastructure signals a failure that left the negotiation resumable.
type ErrInfrastructure struct{ rpcMessage }

// ErrNotCancellable signals that a negotiation is already finalizing or done.
type ErrNotCancellable struct{ rpcMessage }

// ErrAmbiguous signals that a lookup matched more than one unconsumed record.
type ErrAmbiguous struct{ rpcMessage }

func NewErrNotFound(err error) error       { return &ErrNotFound{rpcMessage{err.Error()}} }
func NewErrRejected(err error) error       { return &ErrRejected{rpcMessage{err.Error()}} }
func NewErrRejectedRemote(err error) error { return &ErrRejectedRemote{rpcMessage{err.Error()}} }
func NewErrTimedOut(err error) error       { return &ErrTimedOut{rpcMessage{err.Error()}} }
func NewErrConflict(err error) error       { return &ErrConflict{rpcMessage{err.Error()}} }
func NewErrCancelled(err error) error      { return &ErrCancelled{rpcMessage{err.Error()}} }
func NewErrInfrastructure(err error) error { return &ErrInfrastructure{rpcMessage{err.Error()}} }
func NewErrNotCancellable(err error) error { return &ErrNotCancellable{rpcMessage{err.Error()}} }
func NewErrAmbiguous(err error) error      { return &ErrAmbiguous{rpcMessage{err.Error()}} }
