package client

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/fundport/fundport/api"
)

// Namespace under which the node registers its API handler.
const Namespace = "Fundport"

// NewFullNodeRPC creates a new http jsonrpc client.
func NewFullNodeRPC(ctx context.Context, addr string, requestHeader http.Header, opts ...jsonrpc.Option) (api.FullNode, jsonrpc.ClientCloser, error) {
	var res api.FullNodeStruct
	closer, err := jsonrpc.NewMergeClient(ctx, addr, Namespace,
		[]interface{}{
			&res.Internal,
		},
		requestHeader,
		append([]jsonrpc.Option{jsonrpc.WithErrors(api.RPCErrors)}, opts...)...,
	)

	return &res, closer, err
}
