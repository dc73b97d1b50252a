package playgraph

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/deepfield/internal/common"
	playgraphpkg "github.com/dtnitsch/deepfield/pkg/playgraph"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// GraphReport is printed to stdout after the graph is checked or rebuilt.
type GraphReport struct {
	Database  string  `yaml:"database"`
	Rebuilt   bool    `yaml:"rebuilt"`
	Levels    int     `yaml:"levels"`
	Nodes     int     `yaml:"nodes"`
	Widest    int     `yaml:"widest_level"`
	MeanWidth float64 `yaml:"mean_width"`
}

// PlaygraphAction brings the persisted play graph up to date and reports its
// shape. --force rebuilds even when the checksum matches; --clear removes the
// graph instead.
func PlaygraphAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := common.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	p, err := playgraphpkg.NewPersistor(database, logger)
	if err != nil {
		return err
	}
	if c.Bool("clear") {
		if err := p.RemoveFiles(c.Context); err != nil {
			return err
		}
		fmt.Printf("Removed play graph from %s\n", database.Path())
		return nil
	}

	report, err := buildGraph(c.Context, p, c.Bool("force"))
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report)
}

func buildGraph(ctx context.Context, p *playgraphpkg.Persistor, force bool) (GraphReport, error) {
	report := GraphReport{Database: p.Store.Path()}
	if force {
		if _, err := p.Rebuild(ctx); err != nil {
			return GraphReport{}, err
		}
		report.Rebuilt = true
	} else {
		rebuilt, err := p.EnsureConsistency(ctx)
		if err != nil {
			return GraphReport{}, err
		}
		report.Rebuilt = rebuilt
	}

	if err := measure(ctx, p.Store, &report); err != nil {
		return GraphReport{}, err
	}
	return report, nil
}

func measure(ctx context.Context, src playgraphpkg.NodeSource, report *GraphReport) error {
	it, err := playgraphpkg.Levels(ctx, src)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		width := len(it.Level())
		report.Levels++
		report.Nodes += width
		report.Widest = max(report.Widest, width)
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("failed to read play graph: %w", err)
	}
	if report.Levels > 0 {
		report.MeanWidth = float64(report.Nodes) / float64(report.Levels)
	}
	return nil
}

func writeReport(w io.Writer, report GraphReport) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
