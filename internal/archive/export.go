// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citescope/pkg/types"
)

// exportedRun is the YAML document shape for one exported run.
type exportedRun struct {
	Run    RunSummary         `yaml:"run"`
	Report types.SourceReport `yaml:"report"`
}

// ExportYAML writes one archived run as a YAML document to w.
func (s *Store) ExportYAML(ctx context.Context, id int64, w io.Writer) error {
	report, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}

	summary, err := s.summary(ctx, id)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(exportedRun{Run: summary, Report: report}); err != nil {
		return fmt.Errorf("encoding run %d: %w", id, err)
	}
	return nil
}

func (s *Store) summary(ctx context.Context, id int64) (RunSummary, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	return RunSummary{}, fmt.Errorf("run %d not found", id)
}
