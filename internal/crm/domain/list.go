package domain

import "time"

// List is a named bucket of leads, typically one import batch.
type List struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	TotalCount  int64
	CreatedAt   time.Time
}

// Campaign groups leads under one calling effort.
type Campaign struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	CreatedAt   time.Time
}
