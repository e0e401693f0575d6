// Package progress drives the terminal progress display for remote operations.
//
// The remote API gives no progress feedback, so while a request is in flight
// the displayed value follows a simulated curve of elapsed time:
//
//	value = min(90, 50 * (1 - e^(-0.2 * seconds)))
//
// The curve never reaches completion on its own. Only Stop with a nil error
// publishes 100.
//
// # Coordinators
//
// Two realizations share the Coordinator contract:
//   - Background owns a goroutine that refreshes the surface on a ticker.
//     Use it when the caller blocks on a synchronous call.
//   - Cooperative has no goroutine of its own. The caller's wait loop ticks it
//     (see Await).
//
// Guard binds a coordinator's lifetime to a function call:
//
//	coord := progress.NewBackground(bar, progress.Options{})
//	err := progress.Guard(coord, func() error {
//	    return progress.Await(ctx, coord, send)
//	})
//
// Stop runs exactly once on every exit path, including panics.
//
// # Byte counters
//
// Downloads report real progress through Counter, an io.Writer that counts
// bytes and renders either a bar (known total) or a spinner (unknown total).
package progress
