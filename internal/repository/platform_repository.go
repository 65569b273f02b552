package repository

import (
	"database/sql"
	"fmt"

	"github.com/invportal/portfolio-backend/internal/model"
)

// PlatformRepository provides data access methods for the external_platform table.
type PlatformRepository struct {
	db *sql.DB
}

// NewPlatformRepository creates a new PlatformRepository with the provided database connection.
func NewPlatformRepository(db *sql.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// GetAllPlatforms retrieves all external platforms ordered by name.
// APIToken is returned exactly as stored (sealed).
func (s *PlatformRepository) GetAllPlatforms() ([]model.Platform, error) {
	query := `
		SELECT id, name, platform_type, COALESCE(api_token, '')
		FROM external_platform
		ORDER BY name ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query external_platform table: %w", err)
	}
	defer rows.Close()

	platforms := []model.Platform{}

	for rows.Next() {
		var p model.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.APIToken); err != nil {
			return nil, fmt.Errorf("failed to scan external_platform table results: %w", err)
		}
		platforms = append(platforms, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating external_platform table: %w", err)
	}

	return platforms, nil
}

// GetByName retrieves one platform by its unique name.
func (s *PlatformRepository) GetByName(name string) (model.Platform, error) {
	query := `
		SELECT id, name, platform_type, COALESCE(api_token, '')
		FROM external_platform
		WHERE name = ?
	`

	var p model.Platform
	err := s.db.QueryRow(query, name).Scan(&p.ID, &p.Name, &p.Type, &p.APIToken)
	if err != nil {
		return model.Platform{}, fmt.Errorf("failed to query external_platform by name: %w", err)
	}

	return p, nil
}

// Insert creates a new external platform row.
func (s *PlatformRepository) Insert(p model.Platform) error {
	query := `
		INSERT INTO external_platform (id, name, platform_type, api_token)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, p.ID, p.Name, p.Type, p.APIToken)
	if err != nil {
		return fmt.Errorf("failed to insert external platform: %w", err)
	}

	return nil
}
