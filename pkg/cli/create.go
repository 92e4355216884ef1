package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/atelier/pkg/cli/config"
	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/usecase"
)

func cmdCreate() *cli.Command {
	var prompt string
	var sessionID string
	var referenceID string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var gatewayCfg config.Gateway
	var artifactCfg config.Artifact

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "Text prompt describing what to create (can also be given as arguments)",
			Sources:     cli.EnvVars("ATELIER_PROMPT"),
			Destination: &prompt,
		},
		&cli.StringFlag{
			Name:        "session-id",
			Usage:       "Session ID to group this creation with prior ones (generated if empty)",
			Sources:     cli.EnvVars("ATELIER_SESSION_ID"),
			Destination: &sessionID,
		},
		&cli.StringFlag{
			Name:        "reference-id",
			Usage:       "ID of a prior creation to use as a style reference",
			Sources:     cli.EnvVars("ATELIER_REFERENCE_ID"),
			Destination: &referenceID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, gatewayCfg.Flags()...)
	flags = append(flags, artifactCfg.Flags()...)

	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"c"},
		Usage:     "Run the creation pipeline once from the terminal",
		ArgsUsage: "[prompt words...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if prompt == "" {
				prompt = strings.Join(c.Args().Slice(), " ")
			}
			if strings.TrimSpace(prompt) == "" {
				return goerr.New("prompt is required (use --prompt or positional arguments)")
			}

			if referenceID != "" {
				if err := types.CreationID(referenceID).Validate(); err != nil {
					return goerr.Wrap(err, "invalid reference-id", goerr.V("reference_id", referenceID))
				}
			}

			p, err := configurePipeline(ctx, &repoCfg, &geminiCfg, &gatewayCfg, &artifactCfg)
			if err != nil {
				return err
			}
			defer p.Close()

			creation, err := p.usecases.Creation.Create(ctx, usecase.CreateInput{
				Prompt:      prompt,
				SessionID:   types.SessionID(sessionID),
				ReferenceID: types.CreationID(referenceID),
			})
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			green := color.New(color.FgGreen)
			cyan := color.New(color.FgCyan)

			green.Println("✅ Creation successful!")
			fmt.Printf("%s %s\n", bold.Sprint("Creation ID:"), creation.ID)
			fmt.Printf("%s %s\n", bold.Sprint("Session ID: "), creation.SessionID)
			fmt.Printf("%s %s\n", bold.Sprint("Image:      "), cyan.Sprint(creation.ImagePath))
			fmt.Printf("%s %s\n", bold.Sprint("Model:      "), cyan.Sprint(creation.ModelPath))
			if creation.EnhancedPrompt != creation.OriginalPrompt {
				fmt.Printf("%s %s\n", bold.Sprint("Prompt:     "), creation.EnhancedPrompt)
			}
			if creation.ReferenceID != "" {
				fmt.Printf("%s %s\n", bold.Sprint("Reference:  "), creation.ReferenceID)
			}

			return nil
		},
	}
}
