package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- Registration PG Repo --

type registrationRepoPG struct{ pool *pgxpool.Pool }

func NewRegistrationRepoPG(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepoPG{pool: pool}
}

const regCols = `id, no_registrasi, no_mr, tanggal_registrasi, no_claim, no_kartu, cov_id,
	nama_peserta, penjamin, icd10, total_tagihan, total_disetujui, total_ditolak,
	claim_status, claim_desc, is_void, is_claim,
	created_by, created_at, claim_by, claim_at, void_by, void_at, void_reason`

func (r *registrationRepoPG) scanRow(row pgx.Row) (*Registration, error) {
	var e Registration
	err := row.Scan(&e.ID, &e.RegistrationNo, &e.MedicalRecordNo, &e.RegistrationDate, &e.ClaimNo, &e.CardNo, &e.CoverageID,
		&e.MemberName, &e.Penjamin, &e.DiagnosisCode, &e.BilledAmount, &e.ApprovedAmount, &e.DeclinedAmount,
		&e.ClaimStatus, &e.ClaimDesc, &e.IsVoid, &e.IsClaim,
		&e.CreatedBy, &e.CreatedAt, &e.ClaimBy, &e.ClaimAt, &e.VoidBy, &e.VoidAt, &e.VoidReason)
	return &e, err
}

func (r *registrationRepoPG) Create(ctx context.Context, e *Registration) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO registrasi_pasien (id, no_registrasi, no_mr, tanggal_registrasi, no_claim, no_kartu, cov_id,
			nama_peserta, penjamin, icd10, total_tagihan, total_disetujui, total_ditolak,
			claim_status, claim_desc, is_void, is_claim, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		e.ID, e.RegistrationNo, e.MedicalRecordNo, e.RegistrationDate, e.ClaimNo, e.CardNo, e.CoverageID,
		e.MemberName, e.Penjamin, e.DiagnosisCode, e.BilledAmount, e.ApprovedAmount, e.DeclinedAmount,
		e.ClaimStatus, e.ClaimDesc, e.IsVoid, e.IsClaim, e.CreatedBy)
	return err
}

func (r *registrationRepoPG) GetByRegistrationNo(ctx context.Context, registrationNo string) (*Registration, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `
		SELECT `+regCols+` FROM registrasi_pasien
		WHERE no_registrasi = $1 AND is_void = false`, registrationNo))
}

func (r *registrationRepoPG) GetActive(ctx context.Context, medicalRecordNo string, date time.Time) (*Registration, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `
		SELECT `+regCols+` FROM registrasi_pasien
		WHERE no_mr = $1 AND tanggal_registrasi::date = $2::date AND is_void = false
		ORDER BY created_at DESC LIMIT 1`, medicalRecordNo, date))
}

func (r *registrationRepoPG) HistoryByMR(ctx context.Context, medicalRecordNo string, limit, offset int) ([]*Registration, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrasi_pasien WHERE no_mr = $1`, medicalRecordNo).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+regCols+` FROM registrasi_pasien
		WHERE no_mr = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, medicalRecordNo, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Registration
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *registrationRepoPG) PromoteClaim(ctx context.Context, p ClaimPromotion) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE registrasi_pasien SET
			no_registrasi = $2, no_claim = $3, icd10 = $4,
			total_tagihan = $5, total_disetujui = $6, total_ditolak = $7,
			claim_status = $8, claim_desc = $9,
			is_claim = true, claim_by = $10, claim_at = NOW()
		WHERE no_registrasi = $1 AND is_void = false`,
		p.ProvisionalNo, p.FinalNo, p.ClaimNo, p.DiagnosisCode,
		p.BilledAmount, p.ApprovedAmount, p.DeclinedAmount,
		p.ClaimStatus, p.ClaimDesc, p.ClaimBy)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *registrationRepoPG) VoidByCardNo(ctx context.Context, cardNo, actor, reason string) (int64, error) {
	// is_claim = false belongs in the statement: a row finalized between the
	// gateway call and this update must not be voided.
	tag, err := r.pool.Exec(ctx, `
		UPDATE registrasi_pasien SET
			is_void = true, void_by = $2, void_at = NOW(), void_reason = $3
		WHERE no_kartu = $1 AND is_void = false AND is_claim = false`,
		cardNo, actor, reason)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// -- Benefit PG Repo --

type benefitRepoPG struct{ pool *pgxpool.Pool }

func NewBenefitRepoPG(pool *pgxpool.Pool) BenefitRepository {
	return &benefitRepoPG{pool: pool}
}

const benefitCols = `id, no_registrasi, no_claim, ben_id, ben_name, avail_limit, freq_desc, limit_desc, created_at`

func (r *benefitRepoPG) scanRow(row pgx.Row) (*Benefit, error) {
	var b Benefit
	err := row.Scan(&b.ID, &b.RegistrationNo, &b.ClaimNo, &b.BenID, &b.BenName,
		&b.AvailLimit, &b.FreqDesc, &b.LimitDesc, &b.CreatedAt)
	return &b, err
}

func (r *benefitRepoPG) CreateMany(ctx context.Context, benefits []*Benefit) error {
	for _, b := range benefits {
		b.ID = uuid.New()
		_, err := r.pool.Exec(ctx, `
			INSERT INTO benefit_pasien (id, no_registrasi, no_claim, ben_id, ben_name, avail_limit, freq_desc, limit_desc)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			b.ID, b.RegistrationNo, b.ClaimNo, b.BenID, b.BenName, b.AvailLimit, b.FreqDesc, b.LimitDesc)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *benefitRepoPG) ListByRegistrationNo(ctx context.Context, registrationNo string) ([]*Benefit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+benefitCols+` FROM benefit_pasien
		WHERE no_registrasi = $1 ORDER BY ben_id`, registrationNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Benefit
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, nil
}

func (r *benefitRepoPG) Rekey(ctx context.Context, oldNo, newNo string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE benefit_pasien SET no_registrasi = $2 WHERE no_registrasi = $1`, oldNo, newNo)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// -- TransactionItem PG Repo --

type transactionItemRepoPG struct{ pool *pgxpool.Pool }

func NewTransactionItemRepoPG(pool *pgxpool.Pool) TransactionItemRepository {
	return &transactionItemRepoPG{pool: pool}
}

const itemCols = `id, no_registrasi, no_claim, ben_id, kode_item, nama_item, qty, total_harga, created_at`

func (r *transactionItemRepoPG) scanRow(row pgx.Row) (*TransactionItem, error) {
	var t TransactionItem
	err := row.Scan(&t.ID, &t.RegistrationNo, &t.ClaimNo, &t.BenID, &t.ItemCode,
		&t.ItemName, &t.Qty, &t.TotalPrice, &t.CreatedAt)
	return &t, err
}

func (r *transactionItemRepoPG) CreateMissing(ctx context.Context, items []*TransactionItem) (int, int, error) {
	inserted, skipped := 0, 0
	for _, t := range items {
		var exists bool
		err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM transaksi_pasien
				WHERE no_registrasi = $1 AND no_claim = $2 AND kode_item = $3)`,
			t.RegistrationNo, t.ClaimNo, t.ItemCode).Scan(&exists)
		if err != nil {
			return inserted, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		t.ID = uuid.New()
		// ON CONFLICT backstops the check/insert race on the composite key.
		tag, err := r.pool.Exec(ctx, `
			INSERT INTO transaksi_pasien (id, no_registrasi, no_claim, ben_id, kode_item, nama_item, qty, total_harga)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (no_registrasi, no_claim, kode_item) DO NOTHING`,
			t.ID, t.RegistrationNo, t.ClaimNo, t.BenID, t.ItemCode, t.ItemName, t.Qty, t.TotalPrice)
		if err != nil {
			return inserted, skipped, err
		}
		if tag.RowsAffected() == 0 {
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

func (r *transactionItemRepoPG) ListByRegistrationNo(ctx context.Context, registrationNo string) ([]*TransactionItem, error) {
	return r.list(ctx, `SELECT `+itemCols+` FROM transaksi_pasien WHERE no_registrasi = $1 ORDER BY ben_id, kode_item`, registrationNo)
}

func (r *transactionItemRepoPG) ListByClaimNo(ctx context.Context, claimNo string) ([]*TransactionItem, error) {
	return r.list(ctx, `SELECT `+itemCols+` FROM transaksi_pasien WHERE no_claim = $1 ORDER BY ben_id, kode_item`, claimNo)
}

func (r *transactionItemRepoPG) list(ctx context.Context, sql string, arg any) ([]*TransactionItem, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TransactionItem
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, nil
}

// -- GatewayResponseRecord PG Repo --

type responseRecordRepoPG struct{ pool *pgxpool.Pool }

func NewResponseRecordRepoPG(pool *pgxpool.Pool) ResponseRecordRepository {
	return &responseRecordRepoPG{pool: pool}
}

const respCols = `id, no_registrasi, no_claim, no_mr, no_kartu, service_id,
	request_body, response_body, is_eligibility, is_claim, created_by, created_at`

func (r *responseRecordRepoPG) scanRow(row pgx.Row) (*GatewayResponseRecord, error) {
	var e GatewayResponseRecord
	err := row.Scan(&e.ID, &e.RegistrationNo, &e.ClaimNo, &e.MedicalRecordNo, &e.CardNo, &e.ServiceID,
		&e.RequestBody, &e.ResponseBody, &e.IsEligibility, &e.IsClaim, &e.CreatedBy, &e.CreatedAt)
	return &e, err
}

func (r *responseRecordRepoPG) Create(ctx context.Context, e *GatewayResponseRecord) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO response_api (id, no_registrasi, no_claim, no_mr, no_kartu, service_id,
			request_body, response_body, is_eligibility, is_claim, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.RegistrationNo, e.ClaimNo, e.MedicalRecordNo, e.CardNo, e.ServiceID,
		e.RequestBody, e.ResponseBody, e.IsEligibility, e.IsClaim, e.CreatedBy)
	return err
}

func (r *responseRecordRepoPG) Rekey(ctx context.Context, oldNo, newNo string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE response_api SET no_registrasi = $2 WHERE no_registrasi = $1`, oldNo, newNo)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *responseRecordRepoPG) UpsertClaim(ctx context.Context, e *GatewayResponseRecord) error {
	var existing uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM response_api WHERE no_mr = $1 AND no_claim = $2 AND is_claim = true`,
		e.MedicalRecordNo, e.ClaimNo).Scan(&existing)
	if err == pgx.ErrNoRows {
		e.IsClaim = true
		return r.Create(ctx, e)
	}
	if err != nil {
		return err
	}
	e.ID = existing
	_, err = r.pool.Exec(ctx, `
		UPDATE response_api SET no_registrasi = $2, no_kartu = $3, service_id = $4,
			request_body = $5, response_body = $6, created_by = $7
		WHERE id = $1`,
		e.ID, e.RegistrationNo, e.CardNo, e.ServiceID, e.RequestBody, e.ResponseBody, e.CreatedBy)
	return err
}

func (r *responseRecordRepoPG) ListByMR(ctx context.Context, medicalRecordNo string, claimOnly bool, limit, offset int) ([]*GatewayResponseRecord, int, error) {
	flagCol := "is_eligibility"
	if claimOnly {
		flagCol = "is_claim"
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM response_api WHERE no_mr = $1 AND `+flagCol+` = true`,
		medicalRecordNo).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+respCols+` FROM response_api
		WHERE no_mr = $1 AND `+flagCol+` = true
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, medicalRecordNo, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*GatewayResponseRecord
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
