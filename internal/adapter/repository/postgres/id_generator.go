package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator mints ids for trips, travelers and expenses. ULIDs sort by
// creation time, which keeps expense ids roughly aligned with ledger order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
