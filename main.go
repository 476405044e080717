package main

import (
	"log"

	"github.com/EtsTest-AndroidApps/QReader/internal/cli"
)

// Version information - set at build time via ldflags
var Version = "dev"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
