package main

import (
	"duelrelay/internal/cli"
)

func main() {
	cli.Execute()
}
