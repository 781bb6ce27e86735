// Package server provides the HTTP server for the compliance API.
//
// It uses gorilla/mux for routing and wraps the router in the global
// middleware chain (request id, panic recovery, metrics, security headers,
// CORS, rate limiting, body limit) plus gorilla/handlers access logging.
//
// # Server Setup
//
//	srv, err := server.NewServer(server.Options{
//	    DB:     db,
//	    Logger: lggr,
//	    Issuer: issuer,
//	    Host:   "0.0.0.0",
//	    Port:   "8000",
//	})
//	endpoints.RegisterAll(srv)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
//
// # Components
//
// The Server struct holds:
//
//   - Router and API: the root router and the token protected /api subrouter
//   - Stores: GORM implementations of the store interfaces
//   - KeyManager, Clients, Searcher: provider access for the assistant and search
//   - Issuer and JWTMiddleware: session token issuing and validation
//
// Configuration reloads are applied with ApplyConfig.
package server
