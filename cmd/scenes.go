package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description", "Triangles", "Materials"})
	for _, info := range scene.ListBuiltins() {
		sc, err := scene.Builtin(info.Name)
		if err != nil {
			return err
		}
		table.Append([]string{
			info.Name,
			info.Description,
			fmt.Sprintf("%d", sc.TriangleCount()),
			fmt.Sprintf("%d", len(sc.Materials)),
		})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
