package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-composer/pkg/compose"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var channelNames = [4]string{"R", "G", "B", "A"}

// InspectBuffers prints per-channel statistics of EXR buffers.
func InspectBuffers(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing exr file argument")
	}

	for _, path := range ctx.Args() {
		b, err := framebuffer.LoadEXR(path)
		if err != nil {
			return err
		}
		displayBufferStats(path, b)
	}
	return nil
}

func displayBufferStats(path string, b *framebuffer.Buffer) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Channel", "Min", "Max", "Mean", "Non-finite"})

	for i, stat := range framebuffer.Stats(b) {
		table.Append([]string{
			channelNames[i],
			fmt.Sprintf("%g", stat.Min),
			fmt.Sprintf("%g", stat.Max),
			fmt.Sprintf("%g", stat.Mean),
			fmt.Sprintf("%d", stat.NonFinite),
		})
	}

	table.Render()
	logger.Noticef("%s (%dx%d)\n%s", path, b.Width(), b.Height(), buf.String())
}

// ListViews prints the on-screen debug views accepted by --view.
func ListViews(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"View"})
	for _, view := range compose.DebugViews() {
		table.Append([]string{view.String()})
	}
	table.Render()
	logger.Noticef("on-screen views\n%s", buf.String())
	return nil
}
