package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"donatehub/api/internal/models"
)

var ErrDonationNotFound = errors.New("donation not found")

// DonationFilter narrows listings. Zero-value fields are ignored; set
// fields AND together. Search matches name or description,
// case-insensitively.
type DonationFilter struct {
	UserID   string
	Status   models.DonationStatus
	Category models.DonationCategory
	Search   string
}

func (f DonationFilter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("d.user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("d.category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(d.name ILIKE $%d OR d.description ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const donationColumns = `
	d.id, d.user_id, d.name, d.category, d.quantity, d.description, d.location,
	d.image, d.status, d.created_at, d.updated_at,
	u.name, u.email, u.phone
`

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Create(ctx context.Context, donation models.Donation) error {
	const query = `
		INSERT INTO donations (
			id, user_id, name, category, quantity, description, location, image, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		donation.ID,
		donation.UserID,
		donation.Name,
		donation.Category,
		donation.Quantity,
		donation.Description,
		donation.Location,
		donation.Image,
		donation.Status,
	)
	return err
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (models.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`

	donation, err := scanDonation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Donation{}, ErrDonationNotFound
		}
		return models.Donation{}, err
	}
	return donation, nil
}

func (r *DonationRepository) List(ctx context.Context, filter DonationFilter, limit, offset int) ([]models.Donation, error) {
	where, args := filter.whereClause()
	query := `
		SELECT ` + donationColumns + `
		FROM donations d
		JOIN users u ON u.id = d.user_id` + where + `
		ORDER BY d.created_at DESC
	`
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

func (r *DonationRepository) Count(ctx context.Context, filter DonationFilter) (int, error) {
	where, args := filter.whereClause()
	query := `SELECT COUNT(*) FROM donations d` + where

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DonationRepository) Update(ctx context.Context, donation models.Donation) error {
	const query = `
		UPDATE donations
		SET name = $2, category = $3, quantity = $4, description = $5,
		    location = $6, image = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		donation.ID,
		donation.Name,
		donation.Category,
		donation.Quantity,
		donation.Description,
		donation.Location,
		donation.Image,
		donation.Status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepository) UpdateStatus(ctx context.Context, id string, status models.DonationStatus) error {
	const query = `UPDATE donations SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM donations WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

type StatusCounts struct {
	Total     int
	Active    int
	Completed int
}

func (r *DonationRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'completed')
		FROM donations
	`

	var counts StatusCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Active, &counts.Completed); err != nil {
		return StatusCounts{}, err
	}
	return counts, nil
}

func scanDonation(row pgx.Row) (models.Donation, error) {
	var donation models.Donation
	var donor models.DonorProfile
	if err := row.Scan(
		&donation.ID,
		&donation.UserID,
		&donation.Name,
		&donation.Category,
		&donation.Quantity,
		&donation.Description,
		&donation.Location,
		&donation.Image,
		&donation.Status,
		&donation.CreatedAt,
		&donation.UpdatedAt,
		&donor.Name,
		&donor.Email,
		&donor.Phone,
	); err != nil {
		return models.Donation{}, err
	}
	donor.ID = donation.UserID
	donation.Donor = &donor
	return donation, nil
}
