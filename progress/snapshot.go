// Package progress serves a live view of an in-flight inference run over
// websocket: an HTTP server upgrades one connection per client and streams
// Snapshot updates to it at a bounded rate, using gorilla/mux for routing
// and an errgroup to run the read, ping-pong, and publish loops for a
// connection together.
package progress

import "time"

// Snapshot is one idempotent view of inference progress: later snapshots
// fully supersede earlier ones, so a slow client can skip any number of
// intervening snapshots without losing information.
type Snapshot struct {
	Pass          int       `json:"pass"`
	Run           int       `json:"run"`
	BanditCount   int       `json:"banditCount"`
	BestLogWeight float64   `json:"bestLogWeight"`
	MapsEmitted   int       `json:"mapsEmitted"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
