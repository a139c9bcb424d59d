package cmd

import (
	"fmt"

	"github.com/lepinkainen/jpegshrink/picture"
	"github.com/lepinkainen/jpegshrink/types"
	"github.com/lepinkainen/jpegshrink/ui"
)

// IdentifyCmd prints size, color and profile information for JPEG files
type IdentifyCmd struct {
	Files []string `arg:"" name:"files" help:"JPEG files to inspect" type:"existingfile"`
}

func (cmd *IdentifyCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Writer()

	for _, path := range cmd.Files {
		info, err := picture.GetImageInfo(path)
		if err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", path, err)))
			continue
		}

		fmt.Fprintf(out, "📷 %s\n", info.Path)
		fmt.Fprintf(out, "   📐 %dx%d, %s\n", info.Width, info.Height, info.ColorModel)
		fmt.Fprintf(out, "   📏 %s\n", ui.FormatBytes(info.FileSize))

		switch {
		case info.ICCError != nil:
			fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("   🎨 Color profile unreadable: %v", info.ICCError)))
		case info.ICC != nil:
			fmt.Fprintf(out, "   🎨 Color profile: %s\n", ui.FormatBytes(int64(len(info.ICC))))
		default:
			fmt.Fprintln(out, "   🎨 No color profile")
		}

		if !info.CaptureTime.IsZero() {
			fmt.Fprintf(out, "   🕒 Taken %s\n", info.CaptureTime.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}
