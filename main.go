package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"ecosound/tagging"
	"ecosound/utils"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

func main() {
	err := utils.CreateFolder("tmp")
	if err != nil {
		logger := utils.GetLogger()
		err := xerrors.New(err)
		ctx := context.Background()
		logger.ErrorContext(ctx, "Failed create tmp dir.", slog.Any("error", err))
	}

	if len(os.Args) < 2 {
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		// Check the tagging service before starting; the server still comes up
		// without it, classifications just degrade to synthetic results.
		tagger := tagging.NewClient(utils.GetEnv("TAGGING_SERVICE_URL", "http://localhost:5002"))
		if err := tagger.HealthCheck(); err != nil {
			log.Printf("WARNING: %v\n", err)
			log.Println("The server will start but classifications will be synthetic until the tagging service is up.")
		} else {
			log.Println("Tagging service is available")
		}

		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		protocol := serveCmd.String("proto", "http", "Protocol to use (http or https)")
		port := serveCmd.String("p", "5000", "Port to use")
		serveCmd.Parse(os.Args[2:])
		serve(*protocol, *port)
	default:
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
}
