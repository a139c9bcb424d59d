package main

import (
	"github.com/alecthomas/kong"

	"github.com/lepinkainen/jpegshrink/cmd"
	"github.com/lepinkainen/jpegshrink/types"
)

var Version = "dev"

type CLI struct {
	Resize   cmd.ResizeCmd   `cmd:"" default:"withargs" help:"Resize every JPEG in the configured directories in place"`
	Verify   cmd.VerifyCmd   `cmd:"" help:"Report JPEGs that do not have the configured size"`
	Identify cmd.IdentifyCmd `cmd:"" help:"Show size, color profile and capture time of JPEG files"`
	Similar  cmd.SimilarCmd  `cmd:"" help:"Compare images by perceptual hash, optionally against their originals"`

	Version kong.VersionFlag `help:"Show version and exit"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("jpegshrink"),
		kong.Description("Batch-resize JPEG images in place, keeping their color profiles."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		kong.Bind(&types.AppContext{Version: Version}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
