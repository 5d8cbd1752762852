package store

//go:generate go run github.com/dmarkham/enumer -type LinkType -trimprefix LinkType -transform lower -output linktype.gen.go

// LinkType tags a personnel bridge row with the kind of person it links.
// The string forms are stored verbatim in the gr_personnel.type column.
type LinkType int

const (
	LinkTypePersonnel LinkType = iota
	LinkTypeConsultant
)
