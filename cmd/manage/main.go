package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/dataload"
	"foodgram/internal/db"
	"foodgram/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	switch os.Args[1] {
	case "loaddata":
		cmd := flag.NewFlagSet("loaddata", flag.ExitOnError)
		dir := cmd.String("dir", "data", "directory with ingredients.csv and tags.csv")
		_ = cmd.Parse(os.Args[2:])

		pgDB, err := db.ConnectPostgres(ctx, cfg.Database.URL, log)
		if err != nil {
			log.Fatal("database init failed", "error", err)
		}
		defer pgDB.Close()

		res, err := dataload.NewLoader(dataload.NewPostgresSink(pgDB), log).LoadDir(ctx, *dir)
		if err != nil {
			log.Fatal("data import failed", "dir", *dir, "error", err)
		}
		fmt.Printf("Successful csv data import: %d ingredients, %d tags added.\n", res.Ingredients, res.Tags)

	case "createsuperuser":
		pgDB, err := db.ConnectPostgres(ctx, cfg.Database.URL, log)
		if err != nil {
			log.Fatal("database init failed", "error", err)
		}
		defer pgDB.Close()

		created, err := auth.NewService(auth.NewPostgresUserRepository(pgDB)).CreateSuperuser(ctx, auth.RegisterInput{
			Email:     cfg.Super.Email,
			Username:  cfg.Super.Username,
			FirstName: cfg.Super.FirstName,
			LastName:  cfg.Super.LastName,
			Password:  cfg.Super.Password,
		})
		if err != nil {
			log.Fatal("create superuser failed", "error", err)
		}
		if created {
			fmt.Println("Superuser created successfully")
		} else {
			fmt.Println("Superuser already exists")
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: manage <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  loaddata [-dir data]   Import ingredients.csv and tags.csv")
	fmt.Println("  createsuperuser        Create the admin user from SUPERUSER_* settings")
}
