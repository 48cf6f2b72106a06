package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/pcedit/pointcloud"
)

// InfoAction prints the schema, extent and per dimension statistics of each file given.
func InfoAction(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New("no files given")
	}
	_, registry := loggers(c)
	logger := registry.Logger("las.reader")
	for _, fn := range c.Args().Slice() {
		patch, err := pointcloud.NewPatchFromFile(fn, 1, logger)
		if err != nil {
			return errors.Wrapf(err, "cannot read %q", fn)
		}
		printf(c.App.Writer, "%s: %d points", fn, patch.NumPoints())
		if patch.Extent().IsEmpty() {
			warningf(c.App.Writer, "%s has no points", fn)
		} else {
			extent := patch.Extent()
			printf(c.App.Writer, "extent: min %v max %v", extent.Min(), extent.Max())
		}
		printf(c.App.Writer, "%s", PatchTable(patch))
	}
	return nil
}

// PatchTable renders one row per dimension of the patch with its type, encoding and statistics.
func PatchTable(patch *pointcloud.Patch) string {
	stats := patch.Stats()
	if stats == nil {
		stats = patch.ComputeStats()
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Type", "Scale", "Offset", "Min", "Max", "Avg"})
	for _, d := range patch.Schema().Dimensions() {
		row := table.Row{
			fmt.Sprintf("%d", d.Position()),
			d.Name,
			d.Interpretation.String(),
			fmt.Sprintf("%g", d.Scale),
			fmt.Sprintf("%g", d.Offset),
		}
		if patch.NumPoints() == 0 {
			row = append(row, "", "", "")
		} else {
			// names come from the patch's own schema so lookups cannot fail
			minV, _ := stats.Min(d.Name)
			maxV, _ := stats.Max(d.Name)
			avgV, _ := stats.Avg(d.Name)
			row = append(row, fmt.Sprintf("%g", minV), fmt.Sprintf("%g", maxV), fmt.Sprintf("%.4g", avgV))
		}
		t.AppendRow(row)
	}
	return t.Render()
}
