package model

import "time"

// BackupTimestampLayout sorts lexicographically in chronological order.
const BackupTimestampLayout = "20060102T150405.000000000"

// BackupEntry records one durable copy of a file taken before it was overwritten.
type BackupEntry struct {
	OriginalPath Path
	BackupPath   Path
	Timestamp    string
}

// Time parses the entry timestamp.
func (b BackupEntry) Time() (time.Time, error) {
	return time.Parse(BackupTimestampLayout, b.Timestamp)
}
