// Package cli contains the pcedit command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	debugFlag   = "debug"
	logFileFlag = "log-file"

	// Transform flags.
	inputFlag      = "input"
	outputDirFlag  = "output-dir"
	dimsFlag       = "dims"
	pcidFlag       = "pcid"
	workersFlag    = "workers"
	normalizeFlag  = "normalize"
	quaternionFlag = "quaternion"
	axisFlag       = "axis"
	degreesFlag    = "degrees"
	matrixFlag     = "matrix"
	offsetFlag     = "offset"

	jobFlag = "job"
)

func transformFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringSliceFlag{
			Name:     inputFlag,
			Aliases:  []string{"i"},
			Usage:    "LAS `FILE` to transform, may be repeated",
			Required: true,
		},
		&cli.StringFlag{
			Name:     outputDirFlag,
			Aliases:  []string{"o"},
			Usage:    "`DIR` the transformed files are written to",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  dimsFlag,
			Usage: "names of the x, y and z dimensions",
			Value: cli.NewStringSlice("X", "Y", "Z"),
		},
		&cli.Int64Flag{
			Name:  pcidFlag,
			Usage: "schema identifier of the first input, the others follow in order",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  workersFlag,
			Usage: "number of files transformed at once, 0 for all",
		},
	}, extra...)
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "pcedit",
		Usage:           "rotate and move the points of LAS files",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Metadata:        map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write logs to `FILE`, rotated as it grows",
			},
		},
		Before: setupLogging,
		After:  teardownLogging,
		Commands: []*cli.Command{
			{
				Name:      "rotate",
				Usage:     "rotate points by a quaternion or about an axis",
				UsageText: "pcedit rotate (--quaternion w,x,y,z | --axis x,y,z --degrees N) --input in.las --output-dir out",
				Flags: transformFlags(
					&cli.Float64SliceFlag{
						Name:    quaternionFlag,
						Aliases: []string{"q"},
						Usage:   "rotation as w,x,y,z",
					},
					&cli.Float64SliceFlag{
						Name:  axisFlag,
						Usage: "axis to rotate about as x,y,z, used with --" + degreesFlag,
					},
					&cli.Float64Flag{
						Name:  degreesFlag,
						Usage: "angle to rotate about --" + axisFlag + ", counterclockwise",
					},
					&cli.BoolFlag{
						Name:  normalizeFlag,
						Usage: "scale the quaternion to unit length first",
					},
				),
				Action: RotateAction,
			},
			{
				Name:      "affine",
				Usage:     "move points by a 3x4 affine matrix",
				UsageText: "pcedit affine --matrix a,b,c,xoff,d,e,f,yoff,g,h,i,zoff --input in.las --output-dir out",
				Flags: transformFlags(
					&cli.Float64SliceFlag{
						Name:     matrixFlag,
						Aliases:  []string{"m"},
						Usage:    "row major 3x4 matrix, 12 comma separated values",
						Required: true,
					},
				),
				Action: AffineAction,
			},
			{
				Name:      "translate",
				Usage:     "offset points",
				UsageText: "pcedit translate --offset x,y,z --input in.las --output-dir out",
				Flags: transformFlags(
					&cli.Float64SliceFlag{
						Name:     offsetFlag,
						Usage:    "offset as x,y,z",
						Required: true,
					},
				),
				Action: TranslateAction,
			},
			{
				Name:      "run",
				Usage:     "run a job file",
				UsageText: "pcedit run --job job.json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     jobFlag,
						Aliases:  []string{"j"},
						Usage:    "load the job from `FILE`",
						Required: true,
					},
				},
				Action: RunAction,
			},
			{
				Name:      "info",
				Usage:     "print the schema and statistics of LAS files",
				ArgsUsage: "<file.las> [file.las...]",
				Action:    InfoAction,
			},
		},
	}
}
