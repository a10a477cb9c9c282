// Command planagent is an interactive tool-using assistant.
//
// Examples:
//
//	export DEEPSEEK_API_KEY=...
//	go run ./cmd/planagent
//
//	go run ./cmd/planagent --provider openai --model gpt-4o-mini "Convert 100 USD to EUR"
//
//	PLANAGENT_PROVIDER=ollama go run ./cmd/planagent --utcp-providers providers.json
package main

import (
	"os"

	"github.com/Protocol-Lattice/planagent/internal/cli"
)

func main() {
	if err := cli.NewDefaultCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
