package main

import (
	"fmt"
	"os"

	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/portability"
	"github.com/fundport/fundport/portability/network"
)

// Run from the repository root: go run ./gen
func main() {
	err := gen.WriteTupleEncodersToFile("./ledger/types/cbor_gen.go", "types",
		types.Signature{},
		types.RequestState{},
		types.FundState{},
		types.LedgerState{},
		types.StateRef{},
		types.StateAndRef{},
		types.Command{},
		types.WireTransaction{},
		types.SignedTransaction{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = gen.WriteTupleEncodersToFile("./ledger/vault/cbor_gen.go", "vault",
		vault.StoredState{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = gen.WriteTupleEncodersToFile("./ledger/notary/cbor_gen.go", "notary",
		notary.Conflict{},
		notary.CommitRecord{},
		notary.NotariseRequest{},
		notary.NotariseResponse{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = gen.WriteTupleEncodersToFile("./portability/cbor_gen.go", "portability",
		portability.Negotiation{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = gen.WriteTupleEncodersToFile("./portability/network/cbor_gen.go", "network",
		network.Proposal{},
		network.Response{},
		network.FinalityMessage{},
		network.FinalityAck{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
