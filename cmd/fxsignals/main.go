package main

import (
	"fx-signal-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
