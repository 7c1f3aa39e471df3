package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/fundport/fundport/build"
	lcli "github.com/fundport/fundport/cli"
	"github.com/fundport/fundport/lib/fplog"
)

var log = logging.Logger("main")

func main() {
	fplog.SetupLogLevels()

	local := []*cli.Command{
		daemonCmd,
		initCmd,
		configCmd,
	}

	app := &cli.App{
		Name:                 "fundport",
		Usage:                "Peer-to-peer fund ownership transfers with notarised finality",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			lcli.RepoFlag,
		},
		Metadata: map[string]interface{}{},

		Commands: append(local, lcli.Commands...),
	}

	lcli.RunApp(app)
	os.Exit(0)
}
