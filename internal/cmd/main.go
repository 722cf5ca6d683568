package cmd

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"

	"savvycal/internal/cmd/base"
	"savvycal/internal/cmd/commands"
	"savvycal/pkg/config"
	"savvycal/pkg/logger"
)

const Version = "0.1.0"

// Commands is the mapping of all available savvycal commands.
var Commands map[string]cli.CommandFactory

func initCommands(b *base.Command) {
	Commands = map[string]cli.CommandFactory{
		"request": func() (cli.Command, error) {
			return &commands.RequestCommand{Command: b}, nil
		},
		"operations": func() (cli.Command, error) {
			return &commands.OperationsCommand{Command: b}, nil
		},
		"slots": func() (cli.Command, error) {
			return &commands.SlotsCommand{Command: b}, nil
		},
		"token": func() (cli.Command, error) {
			return &commands.TokenCommand{Command: b}, nil
		},
		"token inspect": func() (cli.Command, error) {
			return &commands.TokenInspectCommand{Command: b}, nil
		},
	}
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	cfg := config.Load()
	level := cfg.LogLevel
	if level == "" {
		// Keep request debug lines off the terminal unless asked for.
		level = "warn"
	}
	log := logger.New(cfg.Env, level)
	defer func() { _ = log.Sync() }()

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	initCommands(&base.Command{UI: ui, Log: log, Config: cfg})

	c := &cli.CLI{
		Name:     cliName,
		Args:     args[1:],
		Version:  Version,
		Commands: Commands,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return exitCode
}
