package db

import (
	"database/sql"
	"fmt"
)

// PlayIterator streams plays. It holds a database connection until closed.
type PlayIterator struct {
	rows    *sql.Rows
	lastErr error
	latched PlayRef
}

func (i *PlayIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	var p PlayRef
	i.lastErr = i.rows.Scan(&p.ID, &p.BatterID, &p.PitcherID, &p.Desc)
	if i.lastErr != nil {
		return false
	}
	i.latched = p
	return true
}

func (i *PlayIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

func (i *PlayIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("play iterator: %w", err)
	}
	return nil
}

// Play returns the play latched by the last call to Next.
func (i *PlayIterator) Play() PlayRef {
	return i.latched
}

// NodeIterator streams play nodes.
type NodeIterator struct {
	rows    *sql.Rows
	lastErr error
	latched PlayNode
}

func (i *NodeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	var n PlayNode
	i.lastErr = i.rows.Scan(&n.PlayID, &n.Outcome, &n.Level)
	if i.lastErr != nil {
		return false
	}
	i.latched = n
	return true
}

func (i *NodeIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

func (i *NodeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("node iterator: %w", err)
	}
	return nil
}

func (i *NodeIterator) Node() PlayNode {
	return i.latched
}
