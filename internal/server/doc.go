// Package server wires the conversion engine into an HTTP server.
//
// Server Lifecycle:
//  1. Load configuration from the environment
//  2. Build the logger (production JSON or development console)
//  3. Register Prometheus collectors on a private registry
//  4. Build the converter from the engine section, reporting to the metrics
//  5. Set up middleware and routes
//  6. Serve until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err = srv.Run(ctx)
package server
