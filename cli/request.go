package cli

import (
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

var requestCmd = &cli.Command{
	Name:  "request",
	Usage: "Request, accept and reject fund transfers",
	Subcommands: []*cli.Command{
		requestCreateCmd,
		requestAcceptCmd,
		requestRejectCmd,
	},
}

var requestCreateCmd = &cli.Command{
	Name:      "create",
	Usage:     "Ask the owner of a fund to transfer it to this node",
	ArgsUsage: "[fundExternalID ownerPeerID]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return ShowHelp(cctx, xerrors.New("expected 2 arguments"))
		}
		owner, err := peer.Decode(cctx.Args().Get(1))
		if err != nil {
			return ShowHelp(cctx, xerrors.Errorf("parsing owner peer id: %w", err))
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		created, err := api.RequestCreate(ctx, cctx.Args().First(), owner)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("%s request %s created in %s\n", color.GreenString("✓"), created.RequestID, created.Proposal)
		return nil
	},
}

var requestAcceptCmd = &cli.Command{
	Name:      "accept",
	Usage:     "Accept a request addressed to this node, transferring the fund",
	ArgsUsage: "[requestID]",
	Action: func(cctx *cli.Context) error {
		return settleRequest(cctx, true)
	},
}

var requestRejectCmd = &cli.Command{
	Name:      "reject",
	Usage:     "Reject a request addressed to this node",
	ArgsUsage: "[requestID]",
	Action: func(cctx *cli.Context) error {
		return settleRequest(cctx, false)
	},
}

func settleRequest(cctx *cli.Context, accept bool) error {
	if cctx.NArg() != 1 {
		return ShowHelp(cctx, xerrors.New("expected 1 argument"))
	}
	requestID, err := uuid.Parse(cctx.Args().First())
	if err != nil {
		return ShowHelp(cctx, xerrors.Errorf("parsing request id: %w", err))
	}

	api, closer, err := GetFullNodeAPI(cctx)
	if err != nil {
		return err
	}
	defer closer()
	ctx := ReqContext(cctx)

	settle, verb := api.RequestReject, "rejected"
	if accept {
		settle, verb = api.RequestAccept, "accepted"
	}

	txid, err := settle(ctx, requestID)
	if err != nil {
		return err
	}

	afmt := NewAppFmt(cctx.App)
	afmt.Printf("%s request %s %s in %s\n", color.GreenString("✓"), requestID, verb, txid)
	return nil
}
