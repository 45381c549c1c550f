// Package audit records the full computed plan of a destructive action
// before it runs, so a human can reconstruct exactly what was removed.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/dedupe"
)

// GroupRecord is one resolved duplicate group in the artifact.
type GroupRecord struct {
	Key        string   `json:"key"`
	KeeperID   string   `json:"keeper_id"`
	KeeperName string   `json:"keeper_name"`
	RemovedIDs []string `json:"removed_ids"`
}

// Record is the durable artifact written before deletion.
type Record struct {
	Operation   string        `json:"operation"`
	GeneratedAt time.Time     `json:"generated_at"`
	Groups      []GroupRecord `json:"groups"`
}

// RecordFromPlan converts a removal plan into an audit record, stamping
// the generation time.
func RecordFromPlan(operation string, plan dedupe.Plan) Record {
	rec := Record{
		Operation:   operation,
		GeneratedAt: time.Now().UTC(),
	}
	for _, g := range plan.Groups {
		gr := GroupRecord{
			Key:        g.Key,
			KeeperID:   g.Keeper.ID,
			KeeperName: g.Keeper.Name,
		}
		for _, e := range g.Remove {
			gr.RemovedIDs = append(gr.RemovedIDs, e.ID)
		}
		rec.Groups = append(rec.Groups, gr)
	}
	return rec
}

// Writer persists an audit record and returns where it landed.
type Writer interface {
	Write(ctx context.Context, rec Record) (string, error)
}

var _ Writer = (*FileWriter)(nil)

// FileWriter writes timestamped JSON artifacts into a directory.
type FileWriter struct {
	dir    string
	logger *zap.Logger
}

func NewFileWriter(dir string, logger *zap.Logger) *FileWriter {
	return &FileWriter{dir: dir, logger: logger}
}

func (w *FileWriter) Write(_ context.Context, rec Record) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit directory %s: %w", w.dir, err)
	}

	name := fmt.Sprintf("%s-%s.json", rec.Operation, rec.GeneratedAt.Format("20060102T150405Z"))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit artifact %s: %w", path, err)
	}

	w.logger.Info("Audit artifact written",
		zap.String("operation", rec.Operation),
		zap.String("path", path),
		zap.Int("groups", len(rec.Groups)))

	return path, nil
}
