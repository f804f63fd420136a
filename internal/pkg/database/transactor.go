package database

import "context"

// Transactor runs fn inside a unit of work. Repositories called with the ctx handed to fn
// take part in that unit; a nested call joins the outer one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
