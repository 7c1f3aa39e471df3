package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/repo"
)

var initCmd = &cli.Command{
	Name:  "init",
	Usage: "Create the repo, its default config and the node identity",
	Action: func(cctx *cli.Context) error {
		r, err := repo.NewFS(cctx.String("repo"))
		if err != nil {
			return xerrors.Errorf("opening fs repo: %w", err)
		}
		if err := r.Init(); err != nil {
			return err
		}

		lr, err := r.Lock()
		if err != nil {
			return err
		}
		defer lr.Close() //nolint:errcheck

		sk, err := lr.Libp2pIdentity()
		if err != nil {
			return err
		}
		id, err := peer.IDFromPrivateKey(sk)
		if err != nil {
			return err
		}

		fmt.Fprintf(cctx.App.Writer, "initialized %s as %s\n", lr.Path(), id)
		return nil
	},
}

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Manage node config",
	Subcommands: []*cli.Command{
		configDefaultCmd,
		configShowCmd,
	},
}

var configDefaultCmd = &cli.Command{
	Name:  "default",
	Usage: "Print default node config",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-comment",
			Usage: "don't comment default values",
		},
	},
	Action: func(cctx *cli.Context) error {
		c := config.DefaultNode()

		if cctx.Bool("no-comment") {
			fmt.Fprintln(cctx.App.Writer, c.String())
			return nil
		}

		cb, err := config.ConfigComment(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, string(cb))
		return nil
	},
}

var configShowCmd = &cli.Command{
	Name:  "show",
	Usage: "Print the config the node in the repo runs with",
	Action: func(cctx *cli.Context) error {
		r, err := repo.NewFS(cctx.String("repo"))
		if err != nil {
			return err
		}
		lr, err := r.Lock()
		if err != nil {
			return err
		}
		defer lr.Close() //nolint:errcheck

		c, err := lr.Config()
		if err != nil {
			return err
		}
		return toml.NewEncoder(cctx.App.Writer).Encode(c)
	},
}
