// Package backup exports the configlets stored on a CVP server to local
// JSON documents, one file per configlet plus a manifest for the set.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/cvp"
	"github.com/cvptools/cvpctl/internal/util"
)

const manifestFileName = "manifest.json"

// API is the slice of the CVP client the exporter needs.
type API interface {
	Configlets(ctx context.Context) ([]cvp.Configlet, error)
}

var _ API = (*cvp.Client)(nil)

// ManifestEntry records one exported configlet.
type ManifestEntry struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	File string `json:"file"`
}

// Manifest describes one backup run.
type Manifest struct {
	RunID      string          `json:"run_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Count      int             `json:"count"`
	Configlets []ManifestEntry `json:"configlets"`
}

// Exporter downloads configlets into a local directory. Repeated runs
// overwrite earlier documents in place.
type Exporter struct {
	api   API
	log   *zap.Logger
	dir   string
	runID string
}

// New creates an Exporter writing to dir.
func New(api API, log *zap.Logger, dir string) *Exporter {
	return &Exporter{
		api:   api,
		log:   log,
		dir:   dir,
		runID: uuid.NewString(),
	}
}

// Run exports every configlet and finishes with the manifest, so a manifest
// on disk always describes fully written documents.
func (e *Exporter) Run(ctx context.Context) (*Manifest, error) {
	configlets, err := e.api.Configlets(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	manifest := &Manifest{
		RunID:     e.runID,
		CreatedAt: time.Now().UTC(),
		Count:     len(configlets),
	}
	seen := make(map[string]bool)
	for i := range configlets {
		cfg := &configlets[i]
		fileName := fmt.Sprintf("configlet-%s.json", documentName(cfg, seen))
		if err := e.writeDocument(fileName, cfg); err != nil {
			return nil, err
		}
		e.log.Debug("configlet exported",
			zap.String("configlet", cfg.Name),
			zap.String("file", fileName))
		manifest.Configlets = append(manifest.Configlets, ManifestEntry{
			Name: cfg.Name,
			Key:  cfg.Key,
			File: fileName,
		})
	}

	if err := e.writeDocument(manifestFileName, manifest); err != nil {
		return nil, err
	}
	e.log.Info("backup completed",
		zap.Int("configlets", len(configlets)),
		zap.String("dir", e.dir))
	return manifest, nil
}

// documentName derives a file-safe base name for a configlet. Names that
// sanitize to the same string, or to nothing, fall back to the configlet key
// so no document overwrites another.
func documentName(cfg *cvp.Configlet, seen map[string]bool) string {
	name := util.SafeFileName(cfg.Name)
	if name == "" {
		name = util.SafeFileName(cfg.Key)
	}
	if seen[name] {
		name = name + "-" + util.SafeFileName(cfg.Key)
	}
	seen[name] = true
	return name
}

// writeDocument writes one JSON document into the backup directory.
// Uses a temp file + rename to ensure atomic writes.
func (e *Exporter) writeDocument(name string, v interface{}) error {
	path := filepath.Join(e.dir, name)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
