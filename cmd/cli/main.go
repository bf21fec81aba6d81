package main

import (
	"github.com/battlepigs/battlepigs/internal/cli"
)

func main() {
	cli.Execute()
}
