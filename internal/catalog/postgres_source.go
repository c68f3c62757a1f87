package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
)

// PostgresSource reads the topic catalog from a database table carrying the
// same positional contract as the CSV export. Rows failing minimal validation
// are dropped with a warning, matching the file source.
type PostgresSource struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

// NewPostgresSource builds a database-backed catalog source.
func NewPostgresSource(db *sqlx.DB, table string, logger *zap.Logger) *PostgresSource {
	if table == "" {
		table = "mcat_topics"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresSource{db: db, table: table, logger: logger}
}

// Load selects every catalog row in stored order.
func (s *PostgresSource) Load(ctx context.Context) ([]models.Topic, error) {
	query := fmt.Sprintf(`SELECT category, subtopic_number, subtopic, concept_number, concept,
		high_yield, provider, title, url, minutes FROM %s ORDER BY id`, s.table)

	var rows []models.Topic
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query catalog table: %w", err)
	}

	topics := make([]models.Topic, 0, len(rows))
	for _, topic := range rows {
		topic.HighYield = parseHighYield(topic.HighYield)
		topic.Type = models.TypeForProvider(topic.Provider)
		if !validTopic(topic) {
			s.logger.Warn("skipping invalid catalog row", zap.String("title", topic.Title))
			continue
		}
		topics = append(topics, topic)
	}
	return topics, nil
}
