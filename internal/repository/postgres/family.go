package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

const familyShareColumns = `id, owner_id, member_id, member_email, role, status, invite_token, created_at, updated_at`

func (r *familyShareRepository) Create(ctx context.Context, share *model.FamilyShare) error {
	query := `
		INSERT INTO family_shares (
			id, owner_id, member_id, member_email, role, status, invite_token,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		share.ID,
		share.OwnerID,
		share.MemberID,
		share.MemberEmail,
		share.Role,
		share.Status,
		share.InviteToken,
		share.CreatedAt,
		share.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create family share: %w", err))
	}
	return nil
}

func (r *familyShareRepository) Get(ctx context.Context, id uuid.UUID) (*model.FamilyShare, error) {
	query := fmt.Sprintf(`SELECT %s FROM family_shares WHERE id = $1`, familyShareColumns)

	var share model.FamilyShare
	err := r.db.GetContext(ctx, &share, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("family share", err)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get family share: %w", err))
	}
	return &share, nil
}

func (r *familyShareRepository) Update(ctx context.Context, share *model.FamilyShare) error {
	query := `
		UPDATE family_shares
		SET member_id = $1, role = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	share.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		share.MemberID,
		share.Role,
		share.Status,
		share.UpdatedAt,
		share.ID,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to update family share: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("family share", nil)
	}
	return nil
}

func (r *familyShareRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.FamilyShare, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM family_shares
		WHERE owner_id = $1 OR member_id = $1
		ORDER BY created_at DESC
	`, familyShareColumns)

	var shares []*model.FamilyShare
	if err := r.db.SelectContext(ctx, &shares, query, userID); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list family shares: %w", err))
	}
	return shares, nil
}
