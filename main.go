package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"meritum/cmd"
	"meritum/database"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigration(os.Args[2:]); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	// SIGINT/SIGTERM cancel the root context; cmd.Run shuts down on it
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("meritum exited with error: %v", err)
	}
}

// runMigration dispatches "meritum migrate <up|down [steps]|status>"
func runMigration(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: meritum migrate [up|down [steps]|status]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
