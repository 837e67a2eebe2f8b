// Package client exposes the read-only view of clients the engine
// consumes. Case and dispute content is owned elsewhere.
package client

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("client not found")

const StatusActive = "active"

type Client struct {
	ID     int64
	Status string
}

func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Client, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
