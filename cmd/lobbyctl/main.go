package main

import (
	"github.com/hmcleod/gamelobby/internal/cli"
)

func main() {
	cli.Execute()
}
