package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drstein77/plantcart/internal/app"
	"github.com/drstein77/plantcart/internal/config"
)

func main() {
	const shutdownTimeout = 5 * time.Second
	// Create a root context with the possibility of cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	option := config.NewOptions()
	option.ParseFlags()

	server, err := app.NewServer(ctx, option)
	if err != nil {
		log.Fatalln(err)
	}

	// Create a channel for signal handling
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		// Wait for a signal
		sig := <-signalCh
		server.Log.Info(fmt.Sprintf("Received signal: %+v", sig))

		// Perform graceful server shutdown
		server.Shutdown(shutdownTimeout)

		// Cancel the context
		cancel()
	}()

	if err := server.Serve(); err != nil {
		server.Log.Error(err.Error())
		os.Exit(1)
	}

	// Wait for the shutdown to drain in-flight requests
	<-ctx.Done()
}
