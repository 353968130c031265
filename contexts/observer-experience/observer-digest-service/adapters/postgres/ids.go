package postgresadapter

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ULIDGenerator issues lexically sortable ids so "id DESC" follows insertion
// order within the same millisecond.
type ULIDGenerator struct{}

func (ULIDGenerator) NewID(_ context.Context) (string, error) {
	return ulid.Make().String(), nil
}
