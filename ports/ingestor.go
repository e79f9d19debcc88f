package ports

import (
	"goprofile/domain/profile"
	"goprofile/domain/record"
)

// Ingestor parses raw delimited text into a record view. It returns the
// count of malformed rows it tolerated; structural failures are errors.
type Ingestor interface {
	Parse(input string, opts profile.Options) (*record.View, int, error)
}
