// Package main is the entry point for the cpl command.
package main

import (
	"github.com/copypastelearn/cpl/cmd"
	"github.com/copypastelearn/cpl/config"
	"github.com/copypastelearn/cpl/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
