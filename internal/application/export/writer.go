package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartloom/exporter/internal/domain/export"
	"go.uber.org/zap"
)

// WriteResult reports what the writer did. Produced is false when no file
// was created, which is a valid non-fatal outcome for empty data sets or
// empty mapping sets.
type WriteResult struct {
	Produced bool
	Path     string
	Records  int
	Size     int64
}

// CSVWriter renders extracted records into a CSV artifact according to an
// ordered field mapping
type CSVWriter struct {
	logger *zap.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(logger *zap.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

// Write renders one header row (column names in mapping order) and one row
// per record, each cell looked up by the mapping's data-source key. A missing
// key yields an empty cell, never an error. Zero records or zero mappings
// produce no file. An existing file at path is overwritten in place.
func (w *CSVWriter) Write(records []export.Record, mappings []export.FieldMapping, path string) (*WriteResult, error) {
	if len(records) == 0 || len(mappings) == 0 {
		w.logger.Info("No file produced",
			zap.String("path", path),
			zap.Int("records", len(records)),
			zap.Int("mappings", len(mappings)),
		)
		return &WriteResult{Produced: false, Path: path}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}

	cw := csv.NewWriter(file)

	header := make([]string, len(mappings))
	for i, m := range mappings {
		header[i] = m.ColumnName
	}
	if err := cw.Write(header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(mappings))
	for _, record := range records {
		for i, m := range mappings {
			row[i] = record[m.DataSource]
		}
		if err := cw.Write(row); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to flush export file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close export file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat export file: %w", err)
	}

	w.logger.Info("Export file written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int64("size", info.Size()),
	)

	return &WriteResult{
		Produced: true,
		Path:     path,
		Records:  len(records),
		Size:     info.Size(),
	}, nil
}

// ValidateFileIntegrity performs a cheap CSV sanity check: the file must
// exist, be non-empty, and its first line must contain at least one
// delimiter. It is not a full parse.
func ValidateFileIntegrity(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("export file missing: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("export file is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read export file: %w", err)
		}
		return errors.New("export file has no header line")
	}
	if !strings.Contains(scanner.Text(), ",") {
		return errors.New("export file header contains no delimiter")
	}
	return nil
}
