package main

import (
	"os"

	"github.com/rpupo63/portfolio-showcase-backend/cmd/portfolioctl/commands"
)

func main() {
	if err := commands.GetRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
