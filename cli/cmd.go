package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/filecoin-project/go-jsonrpc"
	logging "github.com/ipfs/go-log/v2"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/api"
	"github.com/fundport/fundport/api/client"
	"github.com/fundport/fundport/node/repo"
)

var log = logging.Logger("cli")

const (
	metadataContext = "context"
	metadataAPI     = "api"
)

// RepoFlag points every command at the node repo.
var RepoFlag = &cli.StringFlag{
	Name:    "repo",
	EnvVars: []string{repo.EnvPath},
	Value:   repo.DefaultPath,
	Usage:   "path to the fundport repo",
}

// APIConnector lets tests hand the commands an API without a running daemon.
type APIConnector func() api.FullNode

// GetFullNodeAPI dials the daemon whose endpoint is recorded in the repo.
func GetFullNodeAPI(cctx *cli.Context) (api.FullNode, jsonrpc.ClientCloser, error) {
	if tn, ok := cctx.App.Metadata[metadataAPI]; ok {
		return tn.(APIConnector)(), func() {}, nil
	}

	r, err := repo.NewFS(cctx.String(RepoFlag.Name))
	if err != nil {
		return nil, nil, err
	}

	ma, err := r.APIEndpoint()
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to get api endpoint (is the daemon running?): %w", err)
	}
	_, addr, err := manet.DialArgs(ma)
	if err != nil {
		return nil, nil, err
	}

	return client.NewFullNodeRPC(cctx.Context, "ws://"+addr+"/rpc/v0", http.Header{})
}

// ReqContext returns context for cli execution. Calling it for the first time
// installs SIGTERM handler that will close returned context.
// Not safe for concurrent execution.
func ReqContext(cctx *cli.Context) context.Context {
	if uctx, ok := cctx.App.Metadata[metadataContext]; ok {
		// unchecked cast as if something else is in there
		// it is crash worthy either way
		return uctx.(context.Context)
	}

	ctx, done := context.WithCancel(cctx.Context)
	sigChan := make(chan os.Signal, 2)
	go func() {
		<-sigChan
		done()
	}()
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	if cctx.App.Metadata == nil {
		cctx.App.Metadata = map[string]interface{}{}
	}
	cctx.App.Metadata[metadataContext] = ctx
	return ctx
}

var Commands = []*cli.Command{
	fundCmd,
	requestCmd,
	vaultCmd,
	negotiationCmd,
	netCmd,
	idCmd,
}
