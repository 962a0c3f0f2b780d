package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wheelwright/cmd/wheelwright/commands"
	"git.home.luguber.info/inful/wheelwright/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("wheelwright"),
		kong.Description("Build and publish Python wheels: clean, build, check, upload."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("wheelwright %s (%s, built %s)", version.Version, version.GitCommit, version.BuildTime)},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
