package models

import (
	"time"

	"github.com/trebuchet-org/govindex/internal/domain"
)

// CheckpointID is the fixed key of the ingestion checkpoint
var CheckpointID = []byte("CHECKPOINT")

// Checkpoint records the position of the last applied event
type Checkpoint struct {
	BlockNumber     uint64    `json:"blockNumber"`
	LogIndex        uint      `json:"logIndex"`
	EventsProcessed uint64    `json:"eventsProcessed"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (c *Checkpoint) EntityKind() EntityKind { return EntityKindCheckpoint }
func (c *Checkpoint) EntityID() []byte       { return CheckpointID }

// Position returns the chain position of the last applied event
func (c *Checkpoint) Position() domain.Position {
	return domain.Position{BlockNumber: c.BlockNumber, LogIndex: c.LogIndex}
}

// Advance moves the checkpoint past an applied event.
func (c *Checkpoint) Advance(pos domain.Position, now time.Time) {
	c.BlockNumber = pos.BlockNumber
	c.LogIndex = pos.LogIndex
	c.EventsProcessed++
	c.UpdatedAt = now.UTC()
}
