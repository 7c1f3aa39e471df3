package network

import (
	"bufio"
	"time"

	cborutil "github.com/filecoin-project/go-cbor-util"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
)

type finalityStream struct {
	p        peer.ID
	host     host.Host
	rw       network.MuxedStream
	buffered *bufio.Reader
}

var _ FinalityStream = (*finalityStream)(nil)

func (f *finalityStream) ReadFinality() (FinalityMessage, error) {
	var m FinalityMessage

	if err := m.UnmarshalCBOR(f.buffered); err != nil {
		log.Warn(err)
		return FinalityMessageUndefined, err
	}

	return m, nil
}

func (f *finalityStream) WriteFinality(m FinalityMessage) error {
	return cborutil.WriteCborRPC(f.rw, &m)
}

func (f *finalityStream) ReadAck() (FinalityAck, error) {
	var a FinalityAck

	if err := a.UnmarshalCBOR(f.buffered); err != nil {
		return FinalityAckUndefined, err
	}

	return a, nil
}

func (f *finalityStream) WriteAck(a FinalityAck) error {
	return cborutil.WriteCborRPC(f.rw, &a)
}

func (f *finalityStream) RemotePeer() peer.ID {
	return f.p
}

func (f *finalityStream) SetDeadline(t time.Time) error {
	return f.rw.SetDeadline(t)
}

func (f *finalityStream) Reset() error {
	return f.rw.Reset()
}

func (f *finalityStream) Close() error {
	return f.rw.Close()
}
