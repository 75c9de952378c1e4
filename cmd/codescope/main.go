package main

import (
	"codescope/internal/cli"
)

func main() {
	cli.Execute()
}
