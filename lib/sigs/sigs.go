package sigs

import (
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
)

// Sign signs msg with sk, attributing the signature to the peer the key derives.
func Sign(sk crypto.PrivKey, msg []byte) (*types.Signature, error) {
	if sk == nil {
		return nil, xerrors.Errorf("signing: no private key")
	}

	signer, err := peer.IDFromPrivateKey(sk)
	if err != nil {
		return nil, xerrors.Errorf("deriving signer id: %w", err)
	}

	data, err := sk.Sign(msg)
	if err != nil {
		return nil, xerrors.Errorf("signing: %w", err)
	}

	return &types.Signature{Signer: signer, Data: data}, nil
}

// Verify checks sig against msg using the public key embedded in the signer id.
func Verify(sig *types.Signature, msg []byte) error {
	if sig == nil {
		return xerrors.Errorf("signature is nil")
	}

	pk, err := sig.Signer.ExtractPublicKey()
	if err != nil {
		return xerrors.Errorf("extracting public key of %s: %w", sig.Signer, err)
	}

	ok, err := pk.Verify(msg, sig.Data)
	if err != nil {
		return xerrors.Errorf("verifying signature of %s: %w", sig.Signer, err)
	}
	if !ok {
		return xerrors.Errorf("invalid signature by %s", sig.Signer)
	}

	return nil
}

// SignTransaction endorses the transaction id.
func SignTransaction(sk crypto.PrivKey, txid cid.Cid) (*types.Signature, error) {
	return Sign(sk, txid.Bytes())
}

// VerifyTransaction checks that every attached signature is valid for the
// transaction and that every required signer has signed.
func VerifyTransaction(stx *types.SignedTransaction) (cid.Cid, error) {
	txid, err := stx.Cid()
	if err != nil {
		return cid.Undef, xerrors.Errorf("computing transaction id: %w", err)
	}

	for i := range stx.Sigs {
		if err := Verify(&stx.Sigs[i], txid.Bytes()); err != nil {
			return txid, err
		}
	}

	if missing := stx.MissingSigners(); len(missing) > 0 {
		return txid, xerrors.Errorf("transaction %s missing signatures from %v", txid, missing)
	}

	return txid, nil
}
