// Package cli implements the planagent command line: an interactive loop by
// default, one-shot queries when arguments are given.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	agent "github.com/Protocol-Lattice/planagent"
	"github.com/Protocol-Lattice/planagent/internal/config"
	"github.com/Protocol-Lattice/planagent/pkg/logger"
	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
	"github.com/Protocol-Lattice/planagent/src/models"
)

// NewDefaultCommand creates the planagent command bound to the process streams.
func NewDefaultCommand() *cobra.Command {
	return NewCommand(os.Stdin, os.Stdout, os.Stderr, Hooks{})
}

func NewCommand(in io.Reader, out, errOut io.Writer, hooks Hooks) *cobra.Command {
	opts := config.Default()

	cmd := &cobra.Command{
		Use:   "planagent [query...]",
		Short: "Tool-using assistant that plans, reflects and then answers",
		Long: heredoc.Doc(`
			planagent sends each query to a language model, lets the model decide
			whether tools are needed, asks it to critique its own plan and re-plans
			when the critique asks for changes.

			Without arguments it reads one query per line; type exit or quit to leave.`),
		Example: heredoc.Doc(`
			export DEEPSEEK_API_KEY=...
			planagent "How much is 1500 RSD in Japanese currency?"

			planagent --provider ollama --model llama3.1
			planagent --provider dummy`),
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, errOut, hooks)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(out, "Plan agent ready. Type a question and press enter (exit or quit leaves).")
				return RunREPL(cmd.Context(), a, in, out)
			}
			failed := 0
			for _, query := range args {
				fmt.Fprintf(out, "\nQuery: %s\n", query)
				if !RunQuery(cmd.Context(), a, query, out) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newToolsCommand(out, errOut, hooks), newPromptCommand(out, errOut, hooks))
	return cmd
}

func newToolsCommand(out, errOut io.Writer, hooks Hooks) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, errOut, offline(hooks))
			if err != nil {
				return err
			}
			for _, d := range a.Catalog().Descriptors() {
				params := make([]string, 0, len(d.Parameters))
				for _, p := range d.Parameters {
					params = append(params, p.Name+": "+p.Type)
				}
				fmt.Fprintf(out, "%s(%s)\n    %s\n", d.Name, strings.Join(params, ", "), d.Description)
			}
			return nil
		},
	}
}

func newPromptCommand(out, errOut io.Writer, hooks Hooks) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the planning system prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, errOut, offline(hooks))
			if err != nil {
				return err
			}
			prompt, err := a.SystemPrompt()
			if err != nil {
				return err
			}
			if asJSON {
				prompt = json.MarshalString(map[string]string{"system_prompt": prompt})
			}
			fmt.Fprintln(out, prompt)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the prompt as a JSON string.")
	return cmd
}

// offline substitutes the scripted model for commands that never call one,
// so listing tools does not need provider credentials.
func offline(hooks Hooks) Hooks {
	if hooks.Model == nil {
		hooks.Model = models.NewScriptedLLM()
	}
	return hooks
}

func setup(cmd *cobra.Command, errOut io.Writer, hooks Hooks) (*agent.Agent, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := logger.Init(cfg.LogLevel, errOut); err != nil {
		return nil, err
	}
	return BuildAgent(cmd.Context(), cfg, hooks)
}
