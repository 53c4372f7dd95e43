package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/motionplan"
	"github.com/cbrobotics/regionplanner/services/globalplanner"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

var warningPrefix = color.New(color.Bold, color.FgYellow).Sprint("Warning:")

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, warningPrefix+" "+format+"\n", a...)
}

// planTable renders one row per pose with the cost of the cell under it.
func planTable(resp globalplanner.PlanResponse, grid costmap.Grid) string {
	t := table.NewWriter()
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"#", "X", "Y", "Heading", "Cost"})
	for i, pose := range resp.Poses {
		pt := pose.Point()
		cost := "off map"
		if c, ok := grid.WorldToMap(pt); ok {
			cost = fmt.Sprintf("%d", grid.CostAt(c))
		}
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.3f", pt.X),
			fmt.Sprintf("%.3f", pt.Y),
			fmt.Sprintf("%.1f", rutils.RadToDeg(pose.Heading())),
			cost,
		})
	}
	return t.Render()
}

func printPlan(w io.Writer, resp globalplanner.PlanResponse, grid costmap.Grid) {
	if !resp.Succeeded {
		printf(w, "planning failed: %s", resp.Failure)
		if len(resp.GoalPositions) > 0 {
			printf(w, "goal region had %d reachable positions", len(resp.GoalPositions))
		}
		return
	}
	printf(w, "%s", planTable(resp, grid))

	plan := &motionplan.Plan{Frame: resp.Frame, Stamp: resp.Stamp, Poses: resp.Poses}
	printf(w, "plan %s in %q: %d poses, %.3f m", resp.PlanID, resp.Frame, plan.Len(), plan.Length())
	printf(w, "goal positions: %d", len(resp.GoalPositions))
	if resp.UsedFallback {
		warningf(w, "forward search failed, plan came from the reverse search seeded in the goal region")
	}
	if st, err := plan.CostStats(grid); err == nil {
		printf(w, "cost: mean %.1f, median %.1f, p90 %.1f, max %.0f", st.Mean, st.Median, st.P90, st.Max)
	}
}
