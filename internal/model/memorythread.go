package model

import "time"

// MemoryThreadEntry describes a memory-thread log file written to disk.
// ArchiveKey is set only when the entry was also uploaded to object storage.
type MemoryThreadEntry struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	WrittenAt  time.Time `json:"written_at"`
	ArchiveKey string    `json:"archive_key,omitempty"`
}
