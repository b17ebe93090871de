package dto

import "time"

type AliasDiagnosticsResponse struct {
	Aliases   int      `json:"aliases"`
	Countries int      `json:"countries"`
	Degraded  bool     `json:"degraded"`
	Unmatched []string `json:"unmatched"`
}

type ReloadResponse struct {
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
	Visitors   int       `json:"visitors"`
	Locations  int       `json:"locations"`
	Routes     int       `json:"routes"`
	Countries  int       `json:"countries"`
	Degraded   bool      `json:"degraded"`
}
