package repository

import (
	"context"

	"cubebridge/internal/model"
)

// InvocationRepository defines data access for the invocation history using SQL queries only.
// No business logic here — strictly persistence operations.
type InvocationRepository interface {
	// Create inserts a new invocation record and returns the stored row
	// (may include values set by the DB).
	Create(ctx context.Context, inv *model.Invocation) (*model.Invocation, error)

	// FindByID returns an invocation by its ID.
	FindByID(ctx context.Context, id string) (*model.Invocation, error)

	// List returns a paginated list of invocations, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Invocation], error)
}
