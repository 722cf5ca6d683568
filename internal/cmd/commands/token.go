package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/cli"

	"savvycal/internal/cmd/base"
	"savvycal/pkg/client"
)

type TokenCommand struct {
	*base.Command
}

func (c *TokenCommand) Synopsis() string {
	return "Inspect access tokens"
}

func (c *TokenCommand) Help() string {
	return `Usage: savvycal token <subcommand> [options] [args]

  This command groups subcommands for working with access tokens.`
}

func (c *TokenCommand) Run(args []string) int {
	return cli.RunResultHelp
}

type TokenInspectCommand struct {
	*base.Command

	flagOutput string
	now        func() time.Time
}

func (c *TokenInspectCommand) Synopsis() string {
	return "Decode a JWT and report whether it has expired"
}

func (c *TokenInspectCommand) Help() string {
	return `Usage: savvycal token inspect [options] [TOKEN]

  Decodes TOKEN without verifying its signature and prints its claims and
  expiry state. Without TOKEN, SAVVYCAL_ACCESS_TOKEN_CMD is run to obtain one.` +
		c.Flags().Help()
}

func (c *TokenInspectCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet("token inspect")
	f.StringVar(&c.flagOutput, "output", formatJSON, "Output format: json or yaml.")
	return f
}

func (c *TokenInspectCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	var raw string
	switch flags.NArg() {
	case 1:
		raw = flags.Arg(0)
	case 0:
		if c.Config.AccessTokenCmd == "" {
			c.UI.Error("no token given and SAVVYCAL_ACCESS_TOKEN_CMD is not set")
			return 1
		}
		tok, err := base.CommandToken(c.Config.AccessTokenCmd)(context.Background())
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		raw = tok
	default:
		c.UI.Error("expected at most one token")
		return 1
	}

	claims, err := client.InspectToken(raw)
	if err != nil {
		c.UI.Error(base.ErrorMessage(err))
		return 1
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	out := map[string]any{
		"subject":  claims.Subject,
		"issuer":   claims.Issuer,
		"audience": claims.Audience,
		"expired":  client.TokenExpired(raw, now()),
		"claims":   claims.Private,
	}
	if !claims.ExpiresAt.IsZero() {
		out["expires_at"] = claims.ExpiresAt.UTC().Format(time.RFC3339)
		out["expires_in"] = claims.ExpiresAt.Sub(now()).Round(time.Second).String()
	}
	if !claims.IssuedAt.IsZero() {
		out["issued_at"] = claims.IssuedAt.UTC().Format(time.RFC3339)
	}
	text, err := render(out, c.flagOutput)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(text)
	return 0
}
