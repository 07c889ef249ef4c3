package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCapture() *cli.Command {
	var input model.CaptureInput
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Transcribed statement about a person",
			Required:    true,
			Destination: &input.Text,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID owning the memory",
			Sources:     cli.EnvVars("VOICENET_USER"),
			Destination: &input.UserID,
		},
		&cli.StringFlag{
			Name:        "timestamp",
			Usage:       "RFC3339 time the statement was made (defaults to now)",
			Destination: &input.Timestamp,
		},
		&cli.StringFlag{
			Name:        "session",
			Usage:       "Session ID stored with the memory",
			Destination: &input.SessionID,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "capture",
		Aliases: []string{"c"},
		Usage:   "Save a fact about a person from a statement",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := pipelineCfg.build(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			result, err := rt.uc.Capture.Capture(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to capture memory")
			}

			if !result.Success {
				color.New(color.FgYellow).Fprintln(os.Stdout, result.Message)
				fmt.Fprintf(os.Stdout, "confidence: %.2f\n", result.Confidence)
				return nil
			}

			color.New(color.FgGreen).Fprintln(os.Stdout, result.Message)
			fmt.Fprintf(os.Stdout, "id: %s\n", result.Memory.ID)
			return nil
		},
	}
}
