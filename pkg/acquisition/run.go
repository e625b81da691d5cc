package acquisition

import (
	"time"

	"github.com/google/uuid"
)

//Run groups the datasets written by one acquisition cycle
type Run struct {
	ID   uuid.UUID
	Time time.Time
}

//NewRun starts a new run at the current time
func NewRun() Run {
	return Run{
		ID:   uuid.New(),
		Time: time.Now().UTC(),
	}
}
