package playgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/deepfield/pkg/db"
)

// SidecarSuffix is appended to the database name to get the checksum file.
const SidecarSuffix = "_playgraph_hash.txt"

// Store is the database the graph is built from and written to.
type Store interface {
	Plays(ctx context.Context) (*db.PlayIterator, error)
	Nodes(ctx context.Context) (*db.NodeIterator, error)
	InTx(ctx context.Context, fn func(q *db.Queries) error) error
	Checkpoint(ctx context.Context) error
	Path() string
}

// DefaultSidecarPath returns the checksum file that sits next to dbPath:
// "data/stats.db" -> "data/stats_playgraph_hash.txt".
func DefaultSidecarPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + SidecarSuffix
}

// Persistor keeps the persisted play graph in step with the plays table.
// The graph is current when the database file still has the checksum
// recorded right after the last rebuild.
type Persistor struct {
	Store       Store
	SidecarPath string
	Logger      *slog.Logger
}

func NewPersistor(store Store, logger *slog.Logger) (*Persistor, error) {
	if store.Path() == "" {
		return nil, errors.New("play graph needs a file-backed database")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persistor{Store: store, SidecarPath: DefaultSidecarPath(store.Path()), Logger: logger}, nil
}

// IsConsistent reports whether the recorded checksum matches the database.
func (p *Persistor) IsConsistent(ctx context.Context) (bool, error) {
	recorded, err := os.ReadFile(p.SidecarPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read play graph checksum: %w", err)
	}

	if err := p.Store.Checkpoint(ctx); err != nil {
		return false, err
	}
	current, err := Checksum(p.Store.Path())
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(recorded)) == current, nil
}

// EnsureConsistency rebuilds the graph unless it is consistent. It reports
// whether a rebuild happened.
func (p *Persistor) EnsureConsistency(ctx context.Context) (bool, error) {
	ok, err := p.IsConsistent(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		p.Logger.Info("play graph is up to date", "database", p.Store.Path())
		return false, nil
	}

	summary, err := p.Rebuild(ctx)
	if err != nil {
		return false, err
	}
	p.Logger.Info("rebuilt play graph",
		"nodes", summary.Nodes,
		"edges", summary.Edges,
		"excluded", summary.Excluded,
		"levels", summary.Levels,
		"outcomes", summary.Distribution(),
	)
	return true, nil
}

// Rebuild replaces the persisted graph with one built from every play and
// records the new checksum.
func (p *Persistor) Rebuild(ctx context.Context) (*Summary, error) {
	var (
		nodes []db.PlayNode
		edges []db.PlayEdge
	)
	plays, err := p.Store.Plays(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := Build(plays, func(n db.PlayNode, e []db.PlayEdge) error {
		nodes = append(nodes, n)
		edges = append(edges, e...)
		return nil
	})
	if closeErr := plays.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}

	err = p.Store.InTx(ctx, func(q *db.Queries) error {
		if err := q.ClearGraph(ctx); err != nil {
			return err
		}
		if err := q.InsertNodes(ctx, nodes); err != nil {
			return err
		}
		return q.InsertEdges(ctx, edges)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write play graph: %w", err)
	}

	if err := p.Store.Checkpoint(ctx); err != nil {
		return nil, err
	}
	sum, err := Checksum(p.Store.Path())
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(p.SidecarPath, []byte(sum)); err != nil {
		return nil, fmt.Errorf("failed to record play graph checksum: %w", err)
	}
	return summary, nil
}

// RemoveFiles deletes the persisted graph and its checksum.
func (p *Persistor) RemoveFiles(ctx context.Context) error {
	if err := p.Store.InTx(ctx, func(q *db.Queries) error { return q.ClearGraph(ctx) }); err != nil {
		return err
	}
	if err := os.Remove(p.SidecarPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove play graph checksum: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
