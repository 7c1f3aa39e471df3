package cli

import (
	"github.com/fatih/color"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/build"
)

var netCmd = &cli.Command{
	Name:  "net",
	Usage: "Manage P2P Network",
	Subcommands: []*cli.Command{
		netPeers,
		netConnect,
		netListen,
	},
}

var netPeers = &cli.Command{
	Name:  "peers",
	Usage: "Print peers",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		peers, err := api.NetPeers(ctx)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		for _, p := range peers {
			afmt.Printf("%s, %s\n", p.ID, p.Addrs)
		}
		return nil
	},
}

var netListen = &cli.Command{
	Name:  "listen",
	Usage: "List listen addresses",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		addrs, err := api.NetAddrsListen(ctx)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		for _, a := range addrs.Addrs {
			afmt.Printf("%s/p2p/%s\n", a, addrs.ID)
		}
		return nil
	},
}

var netConnect = &cli.Command{
	Name:      "connect",
	Usage:     "Connect to a peer",
	ArgsUsage: "[peerMultiaddr]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return ShowHelp(cctx, xerrors.New("expected a peer multiaddr"))
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		afmt := NewAppFmt(cctx.App)
		for _, a := range cctx.Args().Slice() {
			pi, err := peer.AddrInfoFromString(a)
			if err != nil {
				return xerrors.Errorf("parsing %q: %w", a, err)
			}

			afmt.Printf("connect %s: ", pi.ID)
			if err := api.NetConnect(ctx, *pi); err != nil {
				afmt.Println("failure")
				return err
			}
			afmt.Println("success")
		}
		return nil
	},
}

var idCmd = &cli.Command{
	Name:  "id",
	Usage: "Print the ledger identity of this node and the notary it uses",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		v, err := api.Version(ctx)
		if err != nil {
			return err
		}
		notaryID, err := api.NotaryID(ctx)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("ID:      %s\n", v.ID)
		afmt.Printf("Notary:  %s\n", notaryID)
		afmt.Printf("Version: %s (api %s)\n", v.Version, v.APIVersion)
		if !v.APIVersion.EqMajorMinor(build.FullAPIVersion) {
			afmt.Println(color.YellowString("warning: node api %s does not match client api %s", v.APIVersion, build.FullAPIVersion))
		}
		return nil
	},
}
