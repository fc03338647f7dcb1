package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adockit/adockit/cmd"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists; plain environment variables otherwise
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment variables from .env file")
	}
}

func main() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		fmt.Fprintln(os.Stderr, "Interrupted")
		os.Exit(130)
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
