package training

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/validation"
	"kisan-intent/internal/intent"

	"gopkg.in/yaml.v3"
)

// ==========================
// CSV
// ==========================

// CSVSource reads a file whose header row names a "query" and an "intent"
// column, in any position and case. Other columns are ignored.
type CSVSource struct {
	Path string
	name string
}

func NewCSVSource(name, path string) *CSVSource {
	return &CSVSource{Path: path, name: name}
}

func (s *CSVSource) Name() string { return s.name }
func (s *CSVSource) Type() string { return TypeCSV }

func (s *CSVSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	data, err := readFile(ctx, s.name, s.Path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, "empty file")
	}
	if err != nil {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
	}

	queryCol, intentCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case "query":
			queryCol = i
		case "intent":
			intentCol = i
		}
	}
	if queryCol < 0 || intentCol < 0 {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name,
			fmt.Sprintf("header must contain query and intent columns, got %v", header))
	}

	var records []intent.TrainingRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewTrainingSourceUnavailableError(s.name, err)
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
		}
		// Short rows are kept as empty records; the corpus builder skips them.
		var rec intent.TrainingRecord
		if queryCol < len(row) {
			rec.Query = row[queryCol]
		}
		if intentCol < len(row) {
			rec.Intent = row[intentCol]
		}
		records = append(records, rec)
	}
	return records, nil
}

// ==========================
// JSON
// ==========================

var jsonRecordsSchema = validation.MustCompile(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["query", "intent"],
		"properties": {
			"query": {"type": "string"},
			"intent": {"type": "string"}
		}
	}
}`)

// JSONSource reads a file holding an array of {"query", "intent"} objects.
type JSONSource struct {
	Path string
	name string
}

func NewJSONSource(name, path string) *JSONSource {
	return &JSONSource{Path: path, name: name}
}

func (s *JSONSource) Name() string { return s.name }
func (s *JSONSource) Type() string { return TypeJSON }

func (s *JSONSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	data, err := readFile(ctx, s.name, s.Path)
	if err != nil {
		return nil, err
	}

	if result := jsonRecordsSchema.ValidateBytes(data); !result.Valid {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, result.Error())
	}

	var records []intent.TrainingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
	}
	return records, nil
}

// ==========================
// YAML
// ==========================

// YAMLSource reads either a list of {query, intent} mappings or a mapping of
// intent label to a list of example queries.
type YAMLSource struct {
	Path string
	name string
}

func NewYAMLSource(name, path string) *YAMLSource {
	return &YAMLSource{Path: path, name: name}
}

func (s *YAMLSource) Name() string { return s.name }
func (s *YAMLSource) Type() string { return TypeYAML }

func (s *YAMLSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	data, err := readFile(ctx, s.name, s.Path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var records []intent.TrainingRecord
		if err := root.Decode(&records); err != nil {
			return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
		}
		return records, nil

	case yaml.MappingNode:
		var byIntent map[string][]string
		if err := root.Decode(&byIntent); err != nil {
			return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
		}
		var records []intent.TrainingRecord
		// Follow document order so merges are reproducible.
		for i := 0; i+1 < len(root.Content); i += 2 {
			label := root.Content[i].Value
			for _, q := range byIntent[label] {
				records = append(records, intent.TrainingRecord{Query: q, Intent: label})
			}
		}
		return records, nil
	}

	return nil, apperrors.NewTrainingSourceMalformedError(s.name,
		fmt.Sprintf("expected a list or a mapping at the document root, line %d", root.Line))
}

func readFile(ctx context.Context, name, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(name, err)
	}
	return data, nil
}
