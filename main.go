// Package main is the entry point for lectern.
package main

import (
	"github.com/lectern-cli/lectern/cmd"
	"github.com/lectern-cli/lectern/config"
	"github.com/lectern-cli/lectern/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
