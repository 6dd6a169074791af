package main

import (
	"github.com/hpcops/slurmbridge/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
