package io

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// SnapshotWriter saves frames as timestamped PNG files
type SnapshotWriter struct {
	dir    string
	loader *ImageLoader
	now    func() time.Time
}

func NewSnapshotWriter(dir string, loader *ImageLoader) *SnapshotWriter {
	return &SnapshotWriter{
		dir:    dir,
		loader: loader,
		now:    time.Now,
	}
}

// Save writes mat and returns the file path
func (w *SnapshotWriter) Save(mat gocv.Mat) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot-%s.png", w.now().Format("20060102-150405.000"))
	path := filepath.Join(w.dir, name)
	if err := w.loader.SaveImage(mat, path); err != nil {
		return "", err
	}
	return path, nil
}
