package main

import (
	"context"

	"github.com/multiformats/go-multiaddr"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/api"
	"github.com/fundport/fundport/build"
	"github.com/fundport/fundport/metrics"
	"github.com/fundport/fundport/node"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/node/repo"
)

var daemonCmd = &cli.Command{
	Name:  "daemon",
	Usage: "Start a fundport daemon process",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "api",
			Usage: "override the API listen multiaddr from the config",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx, _ := tag.New(context.Background(),
			tag.Insert(metrics.Version, build.BuildVersion),
			tag.Insert(metrics.Commit, build.CurrentCommit),
		)

		r, err := repo.NewFS(cctx.String("repo"))
		if err != nil {
			return xerrors.Errorf("opening fs repo: %w", err)
		}
		if err := r.Init(); err != nil && err != repo.ErrRepoExists {
			return xerrors.Errorf("repo init error: %w", err)
		}

		var (
			fullNode    api.FullNode
			endpoint    multiaddr.Multiaddr
			withMetrics bool
		)
		shutdownChan := make(chan struct{})

		stop, err := node.New(ctx,
			node.FullAPI(&fullNode),

			node.Online(),
			node.Repo(r),

			node.Override(new(dtypes.ShutdownChan), dtypes.ShutdownChan(shutdownChan)),
			node.Override(node.SetApiEndpointKey, func(lr repo.LockedRepo) error {
				cfg, err := lr.Config()
				if err != nil {
					return xerrors.Errorf("could not get config: %w", err)
				}

				listen := cfg.API.ListenAddress
				if cctx.IsSet("api") {
					listen = cctx.String("api")
				}
				apima, err := multiaddr.NewMultiaddr(listen)
				if err != nil {
					return xerrors.Errorf("parsing api listen address %q: %w", listen, err)
				}
				endpoint = apima
				withMetrics = cfg.Metrics.Enabled
				return lr.SetAPIEndpoint(apima)
			}),
		)
		if err != nil {
			return xerrors.Errorf("initializing node: %w", err)
		}

		stats.Record(ctx, metrics.FundportInfo.M(1))

		h, err := node.FullNodeHandler(fullNode, withMetrics)
		if err != nil {
			return xerrors.Errorf("failed to instantiate rpc handler: %w", err)
		}

		rpcStopper, err := node.ServeRPC(h, "fundport-daemon", endpoint)
		if err != nil {
			return xerrors.Errorf("failed to start json-rpc endpoint: %w", err)
		}

		id, err := fullNode.ID(ctx)
		if err != nil {
			return err
		}
		log.Infow("fundport daemon ready", "id", id, "api", endpoint)

		finishCh := node.MonitorShutdown(shutdownChan,
			node.ShutdownHandler{Component: "rpc server", StopFunc: rpcStopper},
			node.ShutdownHandler{Component: "node", StopFunc: stop},
		)
		<-finishCh
		return nil
	},
}
