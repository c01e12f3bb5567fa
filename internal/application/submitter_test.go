package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

func sessionWith(handle ports.WalletHandle, ledger ports.LedgerClient) *WalletSessionService {
	provider := &fakeProvider{ready: true, authenticated: true, wallets: []ports.WalletHandle{handle}}
	return NewWalletSessionService(provider, ledger)
}

func TestSubmitNotConnectedTouchesNoNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{name: "no wallets", provider: &fakeProvider{ready: true, authenticated: true}},
		{name: "not authenticated", provider: &fakeProvider{ready: true, wallets: []ports.WalletHandle{fakeHandle{address: testAddress, embedded: true}}}},
		{name: "provider not ready", provider: &fakeProvider{wallets: []ports.WalletHandle{fakeHandle{address: testAddress, embedded: true}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := newFakeLedger()
			submitter := NewTransactionSubmitter(NewWalletSessionService(tt.provider, ledger), ledger)

			_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 1})

			require.ErrorIs(t, err, domain.ErrNotConnected)
			assert.Zero(t, ledger.networkCalls())
		})
	}
}

func TestSubmitAnchorFailure(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	ledger.anchorErr = errors.New("rpc down")
	session, _ := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)

	_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 1})

	require.ErrorIs(t, err, domain.ErrSubmissionFailure)
	assert.Contains(t, err.Error(), "fetch anchor")
}

func TestSubmitSignAndSendCapability(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	session, handle := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.NoError(t, err)
	assert.Equal(t, "sig123", sig)
	assert.Equal(t, 1, handle.calls)
	assert.Equal(t, 1, ledger.confirmCalls)
	assert.Zero(t, ledger.broadcasts)
}

func TestSubmitSenderCapability(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	handle := &sendHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		signature:  "sigSend",
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.NoError(t, err)
	assert.Equal(t, "sigSend", sig)
	assert.Equal(t, 1, handle.calls)
}

func TestSubmitProviderSignAndSend(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	inner := &providerSignSend{signature: "sigProvider"}
	handle := &providerHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		provider:   inner,
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.NoError(t, err)
	assert.Equal(t, "sigProvider", sig)
	assert.Equal(t, 1, inner.calls)
	assert.Zero(t, ledger.broadcasts)
}

func TestSubmitProviderSignOnlyBroadcasts(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	ledger.broadcastSig = "sigBroadcast"
	inner := &providerSignOnly{}
	handle := &providerHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		provider:   inner,
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.NoError(t, err)
	assert.Equal(t, "sigBroadcast", sig)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, ledger.broadcasts)
}

func TestSubmitProviderAcquisitionFailure(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	handle := &providerHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		err:        errors.New("provider locked"),
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.ErrorIs(t, err, domain.ErrSigningFailure)
}

func TestSubmitNoCapability(t *testing.T) {
	t.Parallel()

	// A provider carrying neither signing shape falls through the chain.
	ledger := newFakeLedger()
	handle := &providerHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		provider:   struct{}{},
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.ErrorIs(t, err, domain.ErrSigningFailure)
	assert.Contains(t, err.Error(), "no supported signing capability")
}

func TestSubmitSigningFailureWrapped(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	handle := &signSendHandle{
		fakeHandle: fakeHandle{address: testAddress, embedded: true},
		err:        errors.New("user rejected"),
	}
	submitter := NewTransactionSubmitter(sessionWith(handle, ledger), ledger)

	_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.ErrorIs(t, err, domain.ErrSigningFailure)
	assert.Zero(t, ledger.confirmCalls)
}

func TestSubmitConfirmationTimeoutReturnsSignature(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	ledger.confirmErr = context.DeadlineExceeded
	session, _ := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.ErrorIs(t, err, domain.ErrConfirmationTimeout)
	assert.Equal(t, "sig123", sig)
}

func TestSubmitWithoutAwaitSkipsConfirm(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	session, _ := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)
	submitter.AwaitConfirmation = false

	sig, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: testTreasury, Lamports: 500})

	require.NoError(t, err)
	assert.Equal(t, "sig123", sig)
	assert.Zero(t, ledger.confirmCalls)
}

func TestSubmitBadRecipient(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	session, _ := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)

	_, err := submitter.Submit(context.Background(), domain.TransferIntent{Recipient: "not-an-address", Lamports: 500})

	require.ErrorIs(t, err, domain.ErrSubmissionFailure)
	assert.Contains(t, err.Error(), "build transfer")
}

func TestSubmitSelfUsesActiveAddress(t *testing.T) {
	t.Parallel()

	ledger := newFakeLedger()
	session, handle := connectedSession(ledger)
	submitter := NewTransactionSubmitter(session, ledger)

	sig, err := submitter.SubmitSelf(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sig123", sig)
	assert.Equal(t, 1, handle.calls)
}
