package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSearch() *cli.Command {
	var input model.ContactSearchInput
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Role, company, location or industry to look for",
			Required:    true,
			Destination: &input.Query,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID whose contacts are searched",
			Sources:     cli.EnvVars("VOICENET_USER"),
			Destination: &input.UserID,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search imported contacts in your network",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := pipelineCfg.build(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			result, err := rt.uc.Contact.Search(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to search contacts")
			}

			if !result.Success {
				color.New(color.FgYellow).Fprintln(os.Stdout, result.Message)
				return nil
			}

			color.New(color.FgGreen).Fprintln(os.Stdout, result.Message)
			dim := color.New(color.FgHiBlack)
			for _, m := range result.Contacts {
				dim.Fprintf(os.Stdout, "  %.3f  %s  %s  %s\n",
					m.Score, m.Contact.Name, m.Contact.Title, m.Contact.Company)
			}
			return nil
		},
	}
}
