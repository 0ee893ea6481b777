package main

import (
	"os"

	"github.com/soochol/viscribe/internal/cli"
)

func main() {
	if err := cli.NewDefaultCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
