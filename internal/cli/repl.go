package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Executor runs one query.
type Executor interface {
	Execute(ctx context.Context, query string) (string, error)
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	answerColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

// IsExitCommand reports whether line ends the session.
func IsExitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	}
	return false
}

// RunREPL reads one query per line until exit, quit or end of input. A failed
// query is reported and the loop carries on.
func RunREPL(ctx context.Context, ex Executor, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		promptColor.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		query := strings.TrimSpace(line)
		if IsExitCommand(query) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if query != "" {
			RunQuery(ctx, ex, query, out)
		}
		if eof {
			fmt.Fprintln(out)
			return nil
		}
	}
}

// RunQuery executes query and prints the answer or the error.
func RunQuery(ctx context.Context, ex Executor, query string, out io.Writer) bool {
	response, err := ex.Execute(ctx, query)
	if err != nil {
		errorColor.Fprintf(out, "error: %v\n", err)
		return false
	}
	answerColor.Fprintln(out, response)
	return true
}
