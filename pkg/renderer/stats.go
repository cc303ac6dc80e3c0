package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/phoekz/raydiance-sub000/pkg/geometry"
)

// RenderStats summarizes the work done for one input
type RenderStats struct {
	Width, Height int
	Samples       int // Sample passes completed
	Elapsed       time.Duration
	Hits          geometry.HitStats
}

// NewRenderStats extracts the statistics carried by an output
func NewRenderStats(o *Output) RenderStats {
	return RenderStats{
		Width:   o.Width,
		Height:  o.Height,
		Samples: o.SampleIndex,
		Elapsed: o.Elapsed,
		Hits:    o.Stats,
	}
}

// RaysPerSecond returns the ray throughput, or 0 before any time has passed
func (s RenderStats) RaysPerSecond() float64 {
	seconds := s.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.Hits.Rays) / seconds
}

// WriteTable renders the statistics as a text table
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Image size", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Samples per pixel", fmt.Sprintf("%d", s.Samples)},
		{"Rays", fmt.Sprintf("%d", s.Hits.Rays)},
		{"Ray/AABB tests", fmt.Sprintf("%d", s.Hits.RayAABBTests)},
		{"Ray/AABB hits", fmt.Sprintf("%d (%s)", s.Hits.RayAABBHits, percent(s.Hits.RayAABBHits, s.Hits.RayAABBTests))},
		{"Ray/triangle tests", fmt.Sprintf("%d", s.Hits.RayTriangleTests)},
		{"Ray/triangle hits", fmt.Sprintf("%d (%s)", s.Hits.RayTriangleHits, percent(s.Hits.RayTriangleHits, s.Hits.RayTriangleTests))},
	})
	table.SetFooter([]string{"Render time", fmt.Sprintf("%s (%.0f rays/s)", s.Elapsed.Round(time.Millisecond), s.RaysPerSecond())})
	table.Render()
}

func percent(part, whole uint64) string {
	if whole == 0 {
		return "-"
	}
	return fmt.Sprintf("%02.1f %%", 100*float64(part)/float64(whole))
}
