// Package entry implements the entry-point logic shared by the openpay command-line
// tools: a structured logger, a signal-aware context, and the plumbing needed to run
// the HTTP and gRPC listeners of the local verification backend.
//
// Example usage:
//
//	func main() {
//		app := entry.NewApplication("gen-hmac", os.Stderr, slog.LevelInfo)
//		defer app.Stop()
//
//		h := api.NewServer(...)
//		entry.RunServer(app, h, "127.0.0.1", 8080)
//	}
package entry
