// Package base holds what every savvycal subcommand shares: UI, logger,
// configuration and the API client factory.
package base

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/mitchellh/cli"
	"go.uber.org/zap"

	"savvycal/pkg/client"
	"savvycal/pkg/config"
)

type Command struct {
	UI     cli.Ui
	Log    *zap.SugaredLogger
	Config config.Config

	// NewClient overrides ClientFromConfig (tests).
	NewClient func() (*client.Client, error)
}

// Client returns the API client for this invocation.
func (c *Command) Client() (*client.Client, error) {
	if c.NewClient != nil {
		return c.NewClient()
	}
	return ClientFromConfig(c.Config, c.Log)
}

// ClientFromConfig picks the auth strategy from the SAVVYCAL_* settings.
// Naming more than one fails with client.ErrConflictingAuth.
func ClientFromConfig(cfg config.Config, log *zap.SugaredLogger) (*client.Client, error) {
	opts := client.Options{
		BaseURL:    cfg.BaseURL,
		Account:    cfg.Account,
		APIKey:     cfg.APIKey,
		Demo:       cfg.Demo,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout, Transport: client.TracingTransport(nil)},
		Logger:     log,
	}
	if cfg.AccessTokenCmd != "" {
		opts.FetchAccessToken = CommandToken(cfg.AccessTokenCmd)
	}
	return client.New(opts)
}

// CommandToken returns a TokenFunc that runs a shell command and uses its
// trimmed stdout as the token. It runs again whenever the cached token
// expires.
func CommandToken(command string) client.TokenFunc {
	return func(ctx context.Context) (string, error) {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdout, cmd.Stderr = &stdout, &stderr
		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return "", fmt.Errorf("access token command: %w", err)
			}
			return "", fmt.Errorf("access token command: %w: %s", err, msg)
		}
		return strings.TrimSpace(stdout.String()), nil
	}
}

// FlagSet wraps flag.FlagSet so usage text can be appended to Help.
type FlagSet struct {
	*flag.FlagSet
}

func NewFlagSet(name string) *FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(new(bytes.Buffer))
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for inclusion in a command's Help.
func (f *FlagSet) Help() string {
	var b bytes.Buffer
	f.SetOutput(&b)
	defer f.SetOutput(new(bytes.Buffer))
	b.WriteString("\n\nOptions:\n\n")
	f.PrintDefaults()
	return strings.TrimRight(b.String(), "\n")
}

// KeyValues is a repeatable key=value flag.
type KeyValues map[string]string

func (kv KeyValues) String() string {
	parts := make([]string, 0, len(kv))
	for k, v := range kv {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (kv KeyValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return errors.New("expected key=value")
	}
	kv[strings.TrimSpace(k)] = v
	return nil
}

// ErrorMessage describes err for the terminal, naming the auth failure kind
// when there is one.
func ErrorMessage(err error) string {
	var ae *client.AuthError
	if errors.As(err, &ae) {
		return fmt.Sprintf("%s error: %v", ae.Kind, ae.Err)
	}
	return err.Error()
}
