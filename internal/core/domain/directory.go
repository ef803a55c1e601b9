/*
 * file: directory.go
 * package: domain
 * description:
 *     DirectoryEntry is the directory actor's per-room summary, upserted by
 *     a room on every membership change and served as a binary snapshot to
 *     clients enumerating active games. Carries GORM tags directly rather
 *     than a separate storage-layer model.
 */
package domain

import "time"

// DirectoryEntry is keyed by Name. The directory store persists all entries
// together as JSON in the single "games" key-value row, not one row each.
type DirectoryEntry struct {
	Name       string    `gorm:"primaryKey;size:32" json:"name"`
	Type       uint32    `json:"type"`
	SlotsUsed  int       `json:"slotsUsed"`
	SlotsTotal int       `json:"slotsTotal"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
