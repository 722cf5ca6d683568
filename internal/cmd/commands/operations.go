package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"savvycal/internal/cmd/base"
	"savvycal/pkg/operations"
)

type OperationsCommand struct {
	*base.Command

	flagOutput string
	flagPublic bool
}

func (c *OperationsCommand) Synopsis() string {
	return "List known API operations"
}

func (c *OperationsCommand) Help() string {
	return `Usage: savvycal operations [options]

  Lists the API operations this client has typed bindings for. Public
  operations are sent without credentials.` +
		c.Flags().Help()
}

func (c *OperationsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet("operations")
	f.StringVar(&c.flagOutput, "output", "table", "Output format: table, json, yaml or openapi.")
	f.BoolVar(&c.flagPublic, "public", false, "Only list public operations.")
	return f
}

func (c *OperationsCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ops := operations.Catalog.Sorted()
	if c.flagPublic {
		filtered := ops[:0]
		for _, op := range ops {
			if op.Public {
				filtered = append(filtered, op)
			}
		}
		ops = filtered
	}

	switch c.flagOutput {
	case "table":
		var b bytes.Buffer
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tOPERATION\tAUTH")
		for _, op := range ops {
			auth := "required"
			if op.Public {
				auth = "none"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", strings.ToUpper(op.Method), op.Path, op.ID, auth)
		}
		_ = tw.Flush()
		c.UI.Output(strings.TrimRight(b.String(), "\n"))
	case "openapi":
		text, err := render(operations.Catalog.Build("SavvyCal Appointments API", "v1", c.Config.BaseURL), formatJSON)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		c.UI.Output(text)
	default:
		text, err := render(ops, c.flagOutput)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		c.UI.Output(text)
	}
	return 0
}
