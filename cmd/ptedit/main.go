package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/ptedit/internal/app"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if err := app.New(args).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "ptedit:", err)
		os.Exit(1)
	}
}
