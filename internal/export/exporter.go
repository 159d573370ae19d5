package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/lazydb/internal/models"
	"gopkg.in/yaml.v3"
)

// Format is an export file format
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts csv, json, yaml or yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ToFile writes result into dir as a timestamped file and returns its path
func ToFile(result *models.QueryResult, format Format, dir string, now time.Time) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("result-%s.%s", now.Format("20060102-150405"), format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(file, result, format); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

// Write encodes result to w in format
func Write(w io.Writer, result *models.QueryResult, format Format) error {
	switch format {
	case CSV:
		return writeCSV(w, result)
	case JSON:
		return writeJSON(w, result)
	case YAML:
		return writeYAML(w, result)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeCSV(w io.Writer, result *models.QueryResult) error {
	headers := result.Headers()
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range result.Rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = models.FormatValue(row[h])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, result *models.QueryResult) error {
	rows := result.Rows
	if rows == nil {
		rows = []models.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return nil
}

// writeYAML keeps the column order of the result in every mapping
func writeYAML(w io.Writer, result *models.QueryResult) error {
	headers := result.Headers()
	doc := &yaml.Node{Kind: yaml.SequenceNode}

	for _, row := range result.Rows {
		item := &yaml.Node{Kind: yaml.MappingNode}
		for _, h := range headers {
			value := &yaml.Node{}
			if err := value.Encode(row[h]); err != nil {
				return fmt.Errorf("failed to encode %s: %w", h, err)
			}
			item.Content = append(item.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: h},
				value)
		}
		doc.Content = append(doc.Content, item)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal result to YAML: %w", err)
	}
	return enc.Close()
}
