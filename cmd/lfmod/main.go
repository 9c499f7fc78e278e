package main

import (
	"fmt"
	"os"

	"github.com/Alp4ka/moderator/internal/command"
)

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func main() {
	if err := command.Execute(Version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
