package domain

// Lamports per whole SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// NominalTransferLamports is the token amount attached to record-anchoring
// transfers. The value only has to be nonzero so the transfer lands on chain.
const NominalTransferLamports uint64 = 1_000

type TransferIntent struct {
	Recipient string
	Lamports  uint64
}

// Anchor is the short-lived ledger marker a transaction must reference to be
// accepted; stale anchors are rejected by the network.
type Anchor struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

type TxState string

const (
	TxStateBuilding  TxState = "building"
	TxStateSigning   TxState = "signing"
	TxStateSubmitted TxState = "submitted"
	TxStateConfirmed TxState = "confirmed"
	TxStateFailed    TxState = "failed"
)

// PendingTransaction tracks one in-flight transfer. It lives only for the
// duration of the submit call that created it and is never persisted.
type PendingTransaction struct {
	Intent    TransferIntent
	Anchor    Anchor
	Signature string
	State     TxState
}

func (t *PendingTransaction) Terminal() bool {
	return t.State == TxStateConfirmed || t.State == TxStateFailed
}
