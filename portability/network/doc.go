/*
Package network provides an abstraction over a libp2p host for managing
fundport's libp2p protocols:

Negotiate Protocol - the initiator sends a signed proposal, the
counterparty answers with its endorsement or a rejection.

Finality Protocol - the finalizing party delivers a notarised transaction to
every other participant, which records it and acknowledges.

Each protocol is one request and one response per stream.
*/
package network
