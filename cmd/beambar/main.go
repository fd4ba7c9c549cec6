package main

import (
	"github.com/matjam/beambar/internal/cli"
)

func main() {
	cli.Execute()
}
