package models

import "time"

type CatalogEventKind string

const (
	CatalogEventSeeded  CatalogEventKind = "SEEDED"
	CatalogEventSynced  CatalogEventKind = "SYNCED"
	CatalogEventFailed  CatalogEventKind = "FAILED"
	CatalogEventChanged CatalogEventKind = "CHANGED"
)

// CatalogEvent is published after every catalog sync attempt.
type CatalogEvent struct {
	ID        string
	Kind      CatalogEventKind
	Source    string // "builtin", "rest", "postgres"
	Districts int
	Crops     int
	Baselines int
	Steps     int
	Changed   int // rows inserted or updated by this run
	Error     string
	CreatedAt time.Time
}
