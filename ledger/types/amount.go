package types

import (
	"io"

	"github.com/shopspring/decimal"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"
)

// maxAmountLen bounds the textual form read off the wire.
const maxAmountLen = 256

// Amount is a decimal fund balance. It encodes to CBOR as the canonical
// decimal string so that every node hashes the same bytes for it.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{d}
}

func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, xerrors.Errorf("parsing amount %q: %w", s, err)
	}
	return Amount{d}, nil
}

func (a Amount) Equals(o Amount) bool {
	return a.Decimal.Equal(o.Decimal)
}

func (a *Amount) MarshalCBOR(w io.Writer) error {
	s := "0"
	if a != nil {
		s = a.String()
	}
	if len(s) > maxAmountLen {
		return xerrors.Errorf("amount %s too long to encode", s)
	}

	cw := cbg.NewCborWriter(w)
	if err := cw.WriteMajorTypeHeader(cbg.MajTextString, uint64(len(s))); err != nil {
		return err
	}
	_, err := cw.WriteString(s)
	return err
}

func (a *Amount) UnmarshalCBOR(r io.Reader) error {
	s, err := cbg.ReadStringWithMax(cbg.NewCborReader(r), maxAmountLen)
	if err != nil {
		return xerrors.Errorf("reading amount: %w", err)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return xerrors.Errorf("parsing amount %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}
