package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type uploadRecordRepoPG struct{ pool *pgxpool.Pool }

func NewUploadRecordRepoPG(pool *pgxpool.Pool) UploadRecordRepository {
	return &uploadRecordRepoPG{pool: pool}
}

const uploadCols = `id, no_registrasi, no_claim, no_kartu, doc_type, file_name, content_type,
	size, blob_key, gateway_status, gateway_msg, created_by, created_at`

func (r *uploadRecordRepoPG) scanRow(row pgx.Row) (*UploadRecord, error) {
	var e UploadRecord
	err := row.Scan(&e.ID, &e.RegistrationNo, &e.ClaimNo, &e.CardNo, &e.DocType, &e.FileName, &e.ContentType,
		&e.Size, &e.BlobKey, &e.GatewayStatus, &e.GatewayMsg, &e.CreatedBy, &e.CreatedAt)
	return &e, err
}

func (r *uploadRecordRepoPG) Create(ctx context.Context, e *UploadRecord) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO upload_document (id, no_registrasi, no_claim, no_kartu, doc_type, file_name, content_type,
			size, blob_key, gateway_status, gateway_msg, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.RegistrationNo, e.ClaimNo, e.CardNo, e.DocType, e.FileName, e.ContentType,
		e.Size, e.BlobKey, e.GatewayStatus, e.GatewayMsg, e.CreatedBy)
	return err
}

func (r *uploadRecordRepoPG) GetByBlobKey(ctx context.Context, blobKey string) (*UploadRecord, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `SELECT `+uploadCols+` FROM upload_document WHERE blob_key = $1`, blobKey))
}

func (r *uploadRecordRepoPG) ListByRegistrationNo(ctx context.Context, registrationNo string, limit, offset int) ([]*UploadRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM upload_document WHERE no_registrasi = $1`, registrationNo).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+uploadCols+` FROM upload_document
		WHERE no_registrasi = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, registrationNo, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*UploadRecord
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
