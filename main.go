package main

import (
	"os"

	"github.com/jspahr/cgmark/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
