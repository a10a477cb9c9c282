package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

const calculatorDoc = `
Evaluates a single arithmetic operation such as 2 + 2 or 5 * 3.

Parameters:
    - left: Left operand
    - operator: Arithmetic operator
    - right: Right operand
`

// Calculator evaluates basic arithmetic in the form "left operator right".
type Calculator struct{}

func (c *Calculator) Tool() (*tooldef.Tool, error) {
	return tooldef.New(c.calculate,
		tooldef.WithName("calculate"),
		tooldef.WithDoc(calculatorDoc),
		tooldef.WithParams(
			tooldef.Param("left", tooldef.Float),
			tooldef.Param("operator", tooldef.OneOf("+", "-", "*", "/")),
			tooldef.Param("right", tooldef.Float),
		),
	)
}

func (c *Calculator) calculate(_ context.Context, args tooldef.Args) string {
	left, ok := args.Float("left")
	if !ok {
		return "Error: invalid left operand"
	}
	right, ok := args.Float("right")
	if !ok {
		return "Error: invalid right operand"
	}
	op, _ := args.String("operator")
	op = strings.TrimSpace(op)

	var result float64
	switch op {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*", "x", "X":
		result = left * right
	case "/":
		if math.Abs(right) < 1e-12 {
			return "Error: division by zero"
		}
		result = left / right
	default:
		return fmt.Sprintf("Error: unsupported operator %q", op)
	}

	return formatNumber(result)
}
