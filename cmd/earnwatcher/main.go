package main

import (
	"earnings-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
