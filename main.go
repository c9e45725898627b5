package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	_ "time/tzdata" // TZ must resolve in images without a zoneinfo directory

	"github.com/go-authgate/kc-connector/internal/bootstrap"
	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	cfg := config.Load()
	if err := bootstrap.Run(cfg); err != nil {
		log.Fatalf("Failed to start %s: %v", version.App, err)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n\n", os.Args[0])
	fmt.Println("HTTP gateway that creates users in a Keycloak realm")
	fmt.Println("\nEndpoints:")
	fmt.Println("  POST /user      Create a user")
	fmt.Println("  GET  /health    Liveness and server time")
	fmt.Println("  GET  /metrics   Prometheus metrics (METRICS_ENABLED=true)")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println("\nConfiguration is read from the environment and an optional .env file.")
}
