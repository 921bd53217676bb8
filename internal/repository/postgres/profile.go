package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) GetByID(ctx context.Context, identityID uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `SELECT identity_id, email, display_name, role, status, image_key, delivery_token, created_at, updated_at
			  FROM profiles WHERE identity_id = $1`

	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&profile.IdentityID, &profile.Email, &profile.DisplayName, &profile.Role, &profile.Status,
		&profile.ImageKey, &profile.DeliveryToken, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return profile, nil
}

// Create inserts the profile and, for students, the student record in one transaction.
func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile, student *model.StudentRecord) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		profileQuery := `INSERT INTO profiles (identity_id, email, display_name, role, status)
						 VALUES ($1, $2, $3, $4, $5)`
		_, err := tx.Exec(ctx, profileQuery,
			profile.IdentityID, profile.Email, profile.DisplayName, string(profile.Role), profile.Status,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrAlreadyExists
			}
			return fmt.Errorf("failed to insert profile: %w", err)
		}

		if student == nil {
			return nil
		}

		recordQuery := `INSERT INTO student_records (
							identity_id, business_id, email, full_name,
							father_name, mother_name, father_mobile, mother_mobile,
							class_id, admission_epoch, admission_year, dob, gender, blood_group,
							roll_number, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
		_, err = tx.Exec(ctx, recordQuery,
			student.IdentityID, student.BusinessID.String(), student.Email, student.FullName,
			student.Guardian.FatherName, student.Guardian.MotherName,
			student.Guardian.FatherMobile, student.Guardian.MotherMobile,
			student.ClassID, student.AdmissionEpoch, student.AdmissionYear, student.DOB, student.Gender, student.BloodGroup,
			student.RollNumber, student.Status,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrAlreadyExists
			}
			return fmt.Errorf("failed to insert student record: %w", err)
		}
		return nil
	})
}

func (r *ProfileRepository) GetStudentRecord(ctx context.Context, identityID uuid.UUID) (model.StudentRecord, error) {
	var rec model.StudentRecord
	var businessID string
	query := `SELECT identity_id, business_id, email, full_name,
				father_name, mother_name, father_mobile, mother_mobile,
				class_id, admission_epoch, admission_year, dob, gender, blood_group,
				roll_number, status, created_at
			  FROM student_records WHERE identity_id = $1`

	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&rec.IdentityID, &businessID, &rec.Email, &rec.FullName,
		&rec.Guardian.FatherName, &rec.Guardian.MotherName, &rec.Guardian.FatherMobile, &rec.Guardian.MotherMobile,
		&rec.ClassID, &rec.AdmissionEpoch, &rec.AdmissionYear, &rec.DOB, &rec.Gender, &rec.BloodGroup,
		&rec.RollNumber, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StudentRecord{}, model.ErrNotFound
		}
		return model.StudentRecord{}, fmt.Errorf("failed to get student record: %w", err)
	}
	rec.BusinessID = model.BusinessID(businessID)

	return rec, nil
}

func (r *ProfileRepository) ListIdentityIDsByClass(ctx context.Context, classID string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT identity_id FROM student_records WHERE class_id = $1 ORDER BY identity_id`, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by class: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan student ids: %w", err)
	}

	return ids, nil
}

func (r *ProfileRepository) GetDeliveryToken(ctx context.Context, identityID uuid.UUID) (string, error) {
	var token string
	err := r.db.QueryRow(ctx, `SELECT delivery_token FROM profiles WHERE identity_id = $1`, identityID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get delivery token: %w", err)
	}
	return token, nil
}

func (r *ProfileRepository) SetDeliveryToken(ctx context.Context, identityID uuid.UUID, token string) error {
	return r.updateField(ctx, "delivery_token", identityID, token)
}

func (r *ProfileRepository) SetImageKey(ctx context.Context, identityID uuid.UUID, imageKey string) error {
	return r.updateField(ctx, "image_key", identityID, imageKey)
}

// updateField sets a text column of a profile. column is never user input.
func (r *ProfileRepository) updateField(ctx context.Context, column string, identityID uuid.UUID, value string) error {
	query := fmt.Sprintf(`UPDATE profiles SET %s = $2, updated_at = NOW() WHERE identity_id = $1`, column)

	tag, err := r.db.Exec(ctx, query, identityID, value)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
