package main

import (
	"os"

	"github.com/budgetflow/backend/internal/commands"
	"github.com/budgetflow/backend/internal/router"
)

func main() {
	if err := commands.NewRootCommand(router.Version()).Execute(); err != nil {
		os.Exit(1)
	}
}
