// Package cli contains the regionplanner command line: plan once against a config file, replan
// whenever the config changes, and print the config schema.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag     = "config"
	debugFlag      = "debug"
	startFlag      = "start"
	frameFlag      = "frame"
	constraintFlag = "constraint"
	checkFlag      = "check"
	plannerFlag    = "planner"
)

var app = &cli.App{
	Name:            "regionplanner",
	Usage:           "plan paths across an occupancy map to a constrained goal region",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "plan",
			Usage:     "plan once from the start pose to the goal region",
			UsageText: "regionplanner plan --config <FILE> [--start x,y[,theta_degs]] [--frame <FRAME> --constraint <EXPR>]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "load configuration from `FILE`",
				},
				&cli.StringFlag{
					Name:  startFlag,
					Usage: "start pose in the map frame, overriding the config",
				},
				&cli.StringFlag{
					Name:  frameFlag,
					Usage: "frame the goal constraint is expressed in, overriding the config",
				},
				&cli.StringFlag{
					Name:  constraintFlag,
					Usage: "goal constraint expression, overriding the config",
				},
				&cli.BoolFlag{
					Name:  checkFlag,
					Usage: "check the produced plan against the costmap",
				},
			},
			Action: PlanAction,
		},
		{
			Name:  "watch",
			Usage: "replan every time the config file changes",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "watch configuration in `FILE`",
				},
			},
			Action: WatchAction,
		},
		{
			Name:  "schema",
			Usage: "print the JSON schema of the config file",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  plannerFlag,
					Usage: "print only the schema of the planner attributes",
				},
			},
			Action: SchemaAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
