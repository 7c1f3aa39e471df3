package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ipfs/go-cid"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/portability"
)

var negotiationCmd = &cli.Command{
	Name:  "negotiation",
	Usage: "Inspect and steer negotiations",
	Subcommands: []*cli.Command{
		negotiationListCmd,
		negotiationGetCmd,
		negotiationResumeCmd,
		negotiationCancelCmd,
		negotiationWatchCmd,
	},
}

func negotiationStatus(s portability.NegotiationStatus) string {
	switch s {
	case portability.StatusCommitted:
		return color.GreenString(s.String())
	case portability.StatusAborted, portability.StatusRejectedRemote, portability.StatusTimedOut:
		return color.RedString(s.String())
	default:
		return color.YellowString(s.String())
	}
}

func printNegotiation(w *tabwriter.Writer, neg portability.Negotiation) {
	counterparty := "-"
	if neg.Counterparty != "" {
		counterparty = neg.Counterparty.String()
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		neg.ProposalCid,
		neg.Kind,
		neg.Subject,
		counterparty,
		negotiationStatus(neg.Status),
		humanize.Time(time.Unix(0, neg.CreatedAt)),
		neg.Message,
	)
}

func parseProposal(cctx *cli.Context) (cid.Cid, error) {
	if cctx.NArg() != 1 {
		return cid.Undef, ShowHelp(cctx, xerrors.New("expected 1 argument"))
	}
	id, err := cid.Decode(cctx.Args().First())
	if err != nil {
		return cid.Undef, ShowHelp(cctx, xerrors.Errorf("parsing proposal cid: %w", err))
	}
	return id, nil
}

var negotiationListCmd = &cli.Command{
	Name:  "list",
	Usage: "List negotiations",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "active",
			Usage: "only show negotiations that have not finished",
		},
	},
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		negs, err := api.NegotiationList(ctx)
		if err != nil {
			return err
		}
		if cctx.Bool("active") {
			negs = lo.Filter(negs, func(neg portability.Negotiation, _ int) bool {
				return !neg.Status.Terminal()
			})
		}
		sort.Slice(negs, func(i, j int) bool {
			return negs[i].CreatedAt < negs[j].CreatedAt
		})

		w := tabwriter.NewWriter(cctx.App.Writer, 2, 4, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "ProposalCid\tKind\tSubject\tCounterparty\tStatus\tCreated\tMessage\n")
		for _, neg := range negs {
			printNegotiation(w, neg)
		}
		return w.Flush()
	},
}

var negotiationGetCmd = &cli.Command{
	Name:      "get",
	Usage:     "Show one negotiation",
	ArgsUsage: "[proposalCid]",
	Action: func(cctx *cli.Context) error {
		id, err := parseProposal(cctx)
		if err != nil {
			return err
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		neg, err := api.NegotiationGet(ctx, id)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("Proposal:     %s\n", neg.ProposalCid)
		afmt.Printf("Kind:         %s\n", neg.Kind)
		afmt.Printf("Subject:      %s\n", neg.Subject)
		afmt.Printf("Counterparty: %s\n", neg.Counterparty)
		afmt.Printf("Status:       %s\n", negotiationStatus(neg.Status))
		if neg.Failure != portability.FailureNone {
			afmt.Printf("Failure:      %s\n", neg.Failure)
		}
		if neg.Message != "" {
			afmt.Printf("Message:      %s\n", neg.Message)
		}
		for _, c := range neg.Conflicts {
			afmt.Printf("Conflict:     %s consumed by %s\n", c.Ref, c.ConsumedBy)
		}
		return nil
	},
}

var negotiationResumeCmd = &cli.Command{
	Name:      "resume",
	Usage:     "Drive a negotiation suspended by a failure to completion",
	ArgsUsage: "[proposalCid]",
	Action: func(cctx *cli.Context) error {
		id, err := parseProposal(cctx)
		if err != nil {
			return err
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		if err := api.NegotiationResume(ctx, id); err != nil {
			return err
		}
		NewAppFmt(cctx.App).Printf("%s negotiation %s resumed\n", color.GreenString("✓"), id)
		return nil
	},
}

var negotiationCancelCmd = &cli.Command{
	Name:      "cancel",
	Usage:     "Abort a negotiation that has not reached the notary",
	ArgsUsage: "[proposalCid]",
	Action: func(cctx *cli.Context) error {
		id, err := parseProposal(cctx)
		if err != nil {
			return err
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		if err := api.NegotiationCancel(ctx, id); err != nil {
			return err
		}
		NewAppFmt(cctx.App).Printf("negotiation %s cancelled\n", id)
		return nil
	},
}

var negotiationWatchCmd = &cli.Command{
	Name:  "watch",
	Usage: "Print negotiation updates as they happen",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		updates, err := api.NegotiationUpdates(ctx)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		for u := range updates {
			afmt.Printf("%s %s %s %s\n", time.Now().Format(time.RFC3339), u.Negotiation.ProposalCid, u.Event, negotiationStatus(u.Negotiation.Status))
		}
		return nil
	},
}
