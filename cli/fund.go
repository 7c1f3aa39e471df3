package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

var fundCmd = &cli.Command{
	Name:  "fund",
	Usage: "Manage funds owned by this node",
	Subcommands: []*cli.Command{
		fundIssueCmd,
	},
}

var fundIssueCmd = &cli.Command{
	Name:      "issue",
	Usage:     "Create a fund owned by this node",
	ArgsUsage: "[externalID balance]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return ShowHelp(cctx, xerrors.New("expected 2 arguments"))
		}

		balance, err := decimal.NewFromString(cctx.Args().Get(1))
		if err != nil {
			return ShowHelp(cctx, xerrors.Errorf("parsing balance: %w", err))
		}
		if balance.IsNegative() {
			return ShowHelp(cctx, xerrors.New("balance must not be negative"))
		}

		api, closer, err := GetFullNodeAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		txid, err := api.FundIssue(ctx, cctx.Args().First(), balance)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("%s fund %s issued in %s\n", color.GreenString("✓"), cctx.Args().First(), txid)
		return nil
	},
}

// AppFmt writes to the app's configured writer so commands can be tested.
type AppFmt struct {
	app *cli.App
}

func NewAppFmt(a *cli.App) *AppFmt {
	return &AppFmt{app: a}
}

func (a *AppFmt) Print(args ...interface{}) {
	_, _ = fmt.Fprint(a.app.Writer, args...)
}

func (a *AppFmt) Println(args ...interface{}) {
	_, _ = fmt.Fprintln(a.app.Writer, args...)
}

func (a *AppFmt) Printf(fmtstr string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.app.Writer, fmtstr, args...)
}
