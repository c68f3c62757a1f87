package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
)

// minRowFields is the number of positional columns a catalog row must carry:
// category, subtopic_number, subtopic, concept_number, concept, high_yield,
// provider, title, url, minutes.
const minRowFields = 10

// FileSource reads the topic catalog from a CSV export of the organized
// topics spreadsheet. The first row is a header and is skipped; rows failing
// minimal validation are dropped with a warning, never surfaced as errors.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource builds a CSV-backed catalog source.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, logger: logger}
}

// Load reads and parses the catalog file.
func (s *FileSource) Load(_ context.Context) ([]models.Topic, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", s.path)
		}
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows are validated by length below

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	topics := make([]models.Topic, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < minRowFields {
			s.logger.Warn("skipping short catalog row", zap.Int("row", i), zap.Int("fields", len(row)))
			continue
		}
		topic := topicFromRow(row)
		if !validTopic(topic) {
			s.logger.Warn("skipping invalid catalog row", zap.Int("row", i), zap.String("title", topic.Title))
			continue
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

func topicFromRow(row []string) models.Topic {
	provider := row[6]
	return models.Topic{
		Category:       row[0],
		SubtopicNumber: parseIntField(row[1]),
		Subtopic:       row[2],
		ConceptNumber:  parseIntField(row[3]),
		Concept:        row[4],
		HighYield:      parseHighYield(row[5]),
		Provider:       provider,
		Title:          row[7],
		URL:            row[8],
		Minutes:        parseIntField(row[9]),
		Type:           models.TypeForProvider(provider),
	}
}

func parseIntField(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func parseHighYield(raw string) string {
	if raw == "Yes" {
		return "Yes"
	}
	return "No"
}
