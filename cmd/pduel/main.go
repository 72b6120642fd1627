package main

import (
	"github.com/mcoot/puzzleduel-go/internal/cli"
)

func main() {
	cli.Execute()
}
