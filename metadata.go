package embeddir

import "time"

// Metadata carries filesystem timestamps captured when a file was embedded.
// It is attached at table-generation time (embedgen -metadata) and is
// independent of content resolution.
type Metadata struct {
	Accessed time.Time
	Created  time.Time
	Modified time.Time
}

// Equal compares timestamps with time.Equal so identical instants in
// different locations still match.
func (m Metadata) Equal(other Metadata) bool {
	return m.Accessed.Equal(other.Accessed) &&
		m.Created.Equal(other.Created) &&
		m.Modified.Equal(other.Modified)
}
