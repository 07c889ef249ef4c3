package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kayacancode/voice-network/pkg/agent/tool"
	"github.com/kayacancode/voice-network/pkg/usecase"
	"github.com/kayacancode/voice-network/pkg/utils/errutil"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const chatErrorMessage = "Sorry, something went wrong. Please try again."

func cmdChat() *cli.Command {
	var userID string
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID owning the conversation",
			Sources:     cli.EnvVars("VOICENET_USER"),
			Destination: &userID,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Talk to the memory assistant in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := pipelineCfg.build(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if userID == "" {
				userID = rt.uc.DefaultUserID()
			}

			conv, err := rt.uc.Assistant.Start(userID)
			if err != nil {
				return goerr.Wrap(err, "failed to start conversation")
			}
			logging.Default().Info("Conversation started", "session_id", conv.ID, "user_id", userID)

			return runChat(ctx, conv, os.Stdin, os.Stdout)
		},
	}
}

// chatSession is the part of a conversation the REPL drives
type chatSession interface {
	Send(ctx context.Context, text string) (string, error)
}

var _ chatSession = &usecase.Conversation{}

func runChat(ctx context.Context, conv chatSession, in io.Reader, out io.Writer) error {
	prompt := color.New(color.FgCyan, color.Bold)
	reply := color.New(color.FgGreen)
	status := color.New(color.FgHiBlack)

	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		status.Fprintf(out, "  %s\n", message)
	})

	fmt.Fprintln(out, "Tell me about someone you met, or ask what you know about them. Type \"exit\" to quit.")

	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := conv.Send(ctx, line)
		if err != nil {
			errutil.Handle(ctx, err, "chat turn failed")
			reply.Fprintln(out, chatErrorMessage)
			continue
		}
		reply.Fprintln(out, answer)

		if ctx.Err() != nil {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	return nil
}
