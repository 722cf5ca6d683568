package main

import (
	"os"

	"savvycal/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
