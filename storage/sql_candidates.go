package storage

import (
	"context"
	"database/sql"

	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/pkg/errors"
)

type SQLCandidateStorage struct {
	DB      *sql.DB
	Backend string
}

func (s *SQLCandidateStorage) Get(ctx context.Context, id string) (*Candidate, error) {
	var c Candidate
	var createdAt int64
	err := s.DB.QueryRowContext(ctx, rebind(s.Backend, `
		SELECT id, name, nationality, profile_picture, created_at FROM candidate WHERE id = ?
	`), id).Scan(&c.ID, &c.Name, &c.Nationality, &c.ProfilePicture, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		logging.Log.Warnf("CANDIDATE: no candidate found with ID %s", id)
		return nil, ErrNotFound
	}
	if err != nil {
		logging.Log.Errorf("CANDIDATE: query for ID %s failed: %v", id, err)
		return nil, err
	}
	c.CreatedAt = fromUnix(createdAt)
	return &c, nil
}

func (s *SQLCandidateStorage) GetAll(ctx context.Context) ([]*Candidate, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, nationality, profile_picture, created_at FROM candidate ORDER BY created_at, id
	`)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: list query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	candidates := make([]*Candidate, 0)
	for rows.Next() {
		var c Candidate
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Nationality, &c.ProfilePicture, &createdAt); err != nil {
			logging.Log.Errorf("CANDIDATE: failed to scan row: %v", err)
			return nil, err
		}
		c.CreatedAt = fromUnix(createdAt)
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

func (s *SQLCandidateStorage) Create(ctx context.Context, c *Candidate) error {
	_, err := s.DB.ExecContext(ctx, rebind(s.Backend, `
		INSERT INTO candidate (id, name, nationality, profile_picture, created_at) VALUES (?, ?, ?, ?, ?)
	`), c.ID, c.Name, c.Nationality, c.ProfilePicture, toUnix(c.CreatedAt))
	if err != nil {
		if isDuplicateKey(err) {
			logging.Log.Warnf("CANDIDATE: item with ID %s already exists", c.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CANDIDATE: failed to insert candidate: %v", err)
		return err
	}
	return nil
}

func (s *SQLCandidateStorage) Update(ctx context.Context, c *Candidate) error {
	res, err := s.DB.ExecContext(ctx, rebind(s.Backend, `
		UPDATE candidate SET name = ?, nationality = ?, profile_picture = ? WHERE id = ?
	`), c.Name, c.Nationality, c.ProfilePicture, c.ID)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to update candidate: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLCandidateStorage) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, rebind(s.Backend, `DELETE FROM candidate WHERE id = ?`), id)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to delete candidate with ID %s: %v", id, err)
		return err
	}
	logging.Log.Infof("CANDIDATE: deleted candidate with ID %s", id)
	return nil
}
