package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"vidar/internal/engine"
	"vidar/internal/feed"
	"vidar/internal/host"
	"vidar/internal/server"
)

func main() {
	address := flag.String("address", "0.0.0.0", "Listen address")
	port := flag.Int("port", 8080, "Listen port")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	// Wire the engine to the host boundary, the trade feed to the
	// engine, and the HTTP facade on top.
	eng := engine.New(host.SystemClock{}, host.ZerologSink{}, host.StdoutPrinter{})
	hub := feed.NewHub()
	eng.SetReporter(hub)
	srv := server.New(*address, *port, eng, hub)

	go srv.Run(ctx)
	// Block until a signal cancels the context.
	<-ctx.Done()
}
