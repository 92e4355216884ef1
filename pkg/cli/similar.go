package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/atelier/pkg/cli/config"
	"github.com/m-mizutani/atelier/pkg/service/enhancer"
	"github.com/m-mizutani/atelier/pkg/usecase"
	"github.com/m-mizutani/atelier/pkg/utils/errutil"
)

func cmdSimilar() *cli.Command {
	var prompt string
	var limit int
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "Text prompt to search prior creations with (can also be given as arguments)",
			Sources:     cli.EnvVars("ATELIER_PROMPT"),
			Destination: &prompt,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of results",
			Value:       usecase.DefaultSimilarLimit,
			Sources:     cli.EnvVars("ATELIER_SIMILAR_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "similar",
		Usage:     "Find prior creations with prompts similar to the given one",
		ArgsUsage: "[prompt words...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if prompt == "" {
				prompt = strings.Join(c.Args().Slice(), " ")
			}
			if strings.TrimSpace(prompt) == "" {
				return goerr.New("prompt is required (use --prompt or positional arguments)")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					_ = errutil.Handle(ctx, err, "failed to close repository")
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("similarity search requires Gemini configuration (set --gemini-project)")
			}

			enhancerSvc, err := enhancer.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize prompt enhancer")
			}

			uc := usecase.New(repo, usecase.WithEnhancer(enhancerSvc))

			creations, err := uc.Creation.FindSimilar(ctx, prompt, limit)
			if err != nil {
				return err
			}

			if len(creations) == 0 {
				fmt.Println("No similar creations found.")
				return nil
			}

			bold := color.New(color.Bold)
			cyan := color.New(color.FgCyan)

			bold.Printf("Found %d similar creation(s):\n", len(creations))
			for i, creation := range creations {
				fmt.Printf("%d. %s\n", i+1, cyan.Sprint(creation.ID))
				fmt.Printf("   Prompt: %s\n", creation.OriginalPrompt)
				fmt.Printf("   Image:  %s\n", creation.ImagePath)
				fmt.Printf("   Model:  %s\n", creation.ModelPath)
				fmt.Printf("   Created: %s\n", creation.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			}

			return nil
		},
	}
}
