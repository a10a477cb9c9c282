package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

const clockDoc = `
Returns the current date and time. Use it to resolve relative dates such as "tomorrow".

Parameters:
    - timezone: IANA time zone name (e.g., "Asia/Tokyo"); UTC when empty
`

// Clock reports the current date, so the model can turn relative dates into
// the YYYY-MM-DD form other tools expect.
type Clock struct {
	Now func() time.Time
}

func (c *Clock) Tool() (*tooldef.Tool, error) {
	return tooldef.New(c.current,
		tooldef.WithName("get_current_date"),
		tooldef.WithDoc(clockDoc),
		tooldef.WithParams(tooldef.Param("timezone", tooldef.String)),
	)
}

func (c *Clock) current(_ context.Context, args tooldef.Args) string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	loc := time.UTC
	if name, _ := args.String("timezone"); strings.TrimSpace(name) != "" {
		l, err := time.LoadLocation(strings.TrimSpace(name))
		if err != nil {
			return fmt.Sprintf("Error: unknown time zone %q", name)
		}
		loc = l
	}

	t := now().In(loc)
	return fmt.Sprintf("%s (%s), %s %s", t.Format(time.DateOnly), t.Weekday(), t.Format("15:04"), loc.String())
}
