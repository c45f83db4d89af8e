package storage

import (
	"context"
	"database/sql"

	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/pkg/errors"
)

type SQLCouponStorage struct {
	DB      *sql.DB
	Backend string
}

const couponColumns = `id, name, votes, eligible_candidate_counts, pricing, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*Coupon, error) {
	var c Coupon
	var createdAt int64
	if err := row.Scan(&c.ID, &c.Name, &c.Votes, &c.EligibleCandidateCounts, &c.Pricing, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromUnix(createdAt)
	return &c, nil
}

func (s *SQLCouponStorage) Get(ctx context.Context, id string) (*Coupon, error) {
	row := s.DB.QueryRowContext(ctx, rebind(s.Backend, `SELECT `+couponColumns+` FROM coupon WHERE id = ?`), id)
	c, err := scanCoupon(row)
	if errors.Is(err, sql.ErrNoRows) {
		logging.Log.Warnf("COUPON: no coupon found with ID %s", id)
		return nil, ErrNotFound
	}
	if err != nil {
		logging.Log.Errorf("COUPON: query for ID %s failed: %v", id, err)
		return nil, err
	}
	return c, nil
}

func (s *SQLCouponStorage) GetAll(ctx context.Context) ([]*Coupon, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupon ORDER BY created_at, id`)
	if err != nil {
		logging.Log.Errorf("COUPON: list query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	coupons := make([]*Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			logging.Log.Errorf("COUPON: failed to scan row: %v", err)
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (s *SQLCouponStorage) Create(ctx context.Context, c *Coupon) error {
	_, err := s.DB.ExecContext(ctx, rebind(s.Backend, `
		INSERT INTO coupon (`+couponColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.Name, c.Votes, c.EligibleCandidateCounts, c.Pricing, toUnix(c.CreatedAt))
	if err != nil {
		if isDuplicateKey(err) {
			logging.Log.Warnf("COUPON: item with ID %s already exists", c.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("COUPON: failed to insert coupon: %v", err)
		return err
	}
	return nil
}

func (s *SQLCouponStorage) Update(ctx context.Context, c *Coupon) error {
	res, err := s.DB.ExecContext(ctx, rebind(s.Backend, `
		UPDATE coupon SET name = ?, votes = ?, eligible_candidate_counts = ?, pricing = ? WHERE id = ?
	`), c.Name, c.Votes, c.EligibleCandidateCounts, c.Pricing, c.ID)
	if err != nil {
		logging.Log.Errorf("COUPON: failed to update coupon: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLCouponStorage) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, rebind(s.Backend, `DELETE FROM coupon WHERE id = ?`), id)
	if err != nil {
		logging.Log.Errorf("COUPON: failed to delete coupon with ID %s: %v", id, err)
		return err
	}
	logging.Log.Infof("COUPON: deleted coupon with ID %s", id)
	return nil
}
