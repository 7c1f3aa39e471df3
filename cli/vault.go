package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/ipfs/go-cid"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
)

var vaultCmd = &cli.Command{
	Name:  "vault",
	Usage: "Inspect the records held by this node",
	Subcommands: []*cli.Command{
		vaultListCmd,
		vaultHistoryCmd,
		vaultTxCmd,
	},
}

func parseKind(s string) (types.StateKind, error) {
	switch k := types.StateKind(s); k {
	case types.KindFund, types.KindRequest:
		return k, nil
	default:
		return "", xerrors.Errorf("unknown record kind %q, expected %q or %q", s, types.KindFund, types.KindRequest)
	}
}

func describe(s types.LedgerState) string {
	switch {
	case s.Fund != nil:
		return fmt.Sprintf("%s\t%s\towner %s", s.Fund.ExternalID, s.Fund.Balance, s.Fund.Owner)
	case s.Request != nil:
		return fmt.Sprintf("%s\t%s\t%s -> %s (%s)", s.Request.LinearID, requestStatus(s.Request.Status),
			s.Request.Requested, s.Request.Requester, s.Request.FundReference)
	default:
		return "<invalid>"
	}
}

func requestStatus(s types.RequestStatus) string {
	switch s {
	case types.RequestAccepted:
		return color.GreenString(s.String())
	case types.RequestRejected:
		return color.RedString(s.String())
	default:
		return color.YellowString(s.String())
	}
}

var vaultListCmd = &cli.Command{
	Name:  "list",
	Usage: "List the current version of every record",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "record kind: fund or request",
			Value: string(types.KindFund),
		},
	},
	Action: func(cctx *cli.Context) error {
		kind, err := parseKind(cctx.String("kind"))
		if err != nil {
			return ShowHelp(cctx, err)
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		records, err := api.VaultList(ctx, kind)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cctx.App.Writer, 2, 4, 2, ' ', 0)
		for _, r := range records {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", describe(r.State), r.Ref)
		}
		return w.Flush()
	},
}

var vaultHistoryCmd = &cli.Command{
	Name:      "history",
	Usage:     "List every recorded version of a record, oldest first",
	ArgsUsage: "[kind id]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return ShowHelp(cctx, xerrors.New("expected 2 arguments"))
		}
		kind, err := parseKind(cctx.Args().First())
		if err != nil {
			return ShowHelp(cctx, err)
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		versions, err := api.VaultHistory(ctx, kind, cctx.Args().Get(1))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cctx.App.Writer, 2, 4, 2, ' ', 0)
		for _, v := range versions {
			consumed := color.GreenString("current")
			if v.ConsumedBy != nil {
				consumed = "consumed by " + v.ConsumedBy.String()
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				time.Unix(0, v.RecordedAt).Format(time.RFC3339), describe(v.State), v.Ref, consumed)
		}
		return w.Flush()
	},
}

var vaultTxCmd = &cli.Command{
	Name:      "tx",
	Usage:     "Print a recorded transaction as JSON",
	ArgsUsage: "[txid]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return ShowHelp(cctx, xerrors.New("expected 1 argument"))
		}
		txid, err := cid.Decode(cctx.Args().First())
		if err != nil {
			return ShowHelp(cctx, xerrors.Errorf("parsing txid: %w", err))
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		stx, err := api.VaultTransaction(ctx, txid)
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(stx, "", "  ")
		if err != nil {
			return err
		}
		NewAppFmt(cctx.App).Println(string(b))
		return nil
	},
}
