package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/adk/agent"

	"github.com/soochol/viscribe/internal/agents"
	"github.com/soochol/viscribe/internal/model"
	"github.com/soochol/viscribe/internal/tools"
)

func newChatCommand(o *rootOptions) *cobra.Command {
	var showTools bool
	cmd := &cobra.Command{
		Use:   "chat <prompt>",
		Short: "Ask the LLM agent a question it can answer with the image tools",
		Example: `  viscribe chat "What is in https://example.com/cat.jpg?"
  viscribe chat --show-tools "How many credits do I have left?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.agent(o.registry())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if showTools {
				ctx = agents.WithToolLogFunc(ctx, func(toolName, msg string) {
					fmt.Fprintf(o.streams.ErrOut, "[%s] %s\n", toolName, msg)
				})
				ctx = model.WithLogFunc(ctx, func(msg string) {
					fmt.Fprintf(o.streams.ErrOut, "[model] %s\n", msg)
				})
			}
			res, err := agents.Chat(ctx, a, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(o.streams.Out, res.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTools, "show-tools", false, "print each tool and model call to stderr")
	return cmd
}

func (o *rootOptions) agent(reg *tools.Registry) (agent.Agent, error) {
	llm, err := model.BuildLLM(o.cfg.Agent)
	if err != nil {
		return nil, err
	}
	return agents.NewImageAgent(agents.ImageAgentConfig{
		Model:    o.cfg.Agent.Model,
		MaxTurns: o.cfg.Agent.MaxTurns,
	}, llm, agents.AdaptTools(reg.List()))
}
