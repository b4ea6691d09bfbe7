package domain

// ExportRow is a single line of the trip export.
// It is a flat, denormalized view: one row per trip with both addresses
// spelled out. Unknown values are empty strings.
type ExportRow struct {
	Date     string // "2006-01-02", UTC
	Purpose  string
	Project  string
	StartKm  int64
	EndKm    int64
	Distance int64

	StartLabel  string
	StartStreet string
	StartZip    string
	StartCity   string

	DestLabel  string
	DestStreet string
	DestZip    string
	DestCity   string

	Notes string
}
