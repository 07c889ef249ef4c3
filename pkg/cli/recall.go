package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRecall() *cli.Command {
	var input model.RecallInput
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Question about a person",
			Required:    true,
			Destination: &input.Query,
		},
		&cli.StringFlag{
			Name:        "person",
			Aliases:     []string{"p"},
			Usage:       "Restrict results to this person instead of detecting the name",
			Destination: &input.PersonFilter,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID whose memories are searched",
			Sources:     cli.EnvVars("VOICENET_USER"),
			Destination: &input.UserID,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "recall",
		Aliases: []string{"r"},
		Usage:   "Answer a question from saved memories",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := pipelineCfg.build(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			result, err := rt.uc.Recall.Recall(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to recall memories")
			}

			if !result.Success {
				color.New(color.FgYellow).Fprintln(os.Stdout, result.Message)
				return nil
			}

			color.New(color.FgGreen).Fprintln(os.Stdout, result.Message)
			dim := color.New(color.FgHiBlack)
			for _, m := range result.Matches {
				dim.Fprintf(os.Stdout, "  %.3f  %s  %s: %s\n",
					m.Score, m.Memory.Timestamp, m.Memory.PersonDisplay, m.Memory.Details)
			}
			return nil
		},
	}
}
