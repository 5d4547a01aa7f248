// Package registration holds the persistent records of the claim lifecycle:
// the patient registration row, its benefit entitlement lines, the billed
// transaction items and the archived gateway exchanges.
package registration

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProvisionalPrefix marks a registration number issued locally before the
// insurer has confirmed a claim. Promotion replaces it with the real number.
const ProvisionalPrefix = "TEMP-ELIG-"

// Registration is one patient encounter submitted to the insurer.
//
// RegistrationNo may start as a provisional identifier and is promoted to the
// hospital's real number when the claim is finalized. IsVoid and IsClaim are
// mutually exclusive terminal states; a claimed row can never be voided.
type Registration struct {
	ID               uuid.UUID  `json:"id"`
	RegistrationNo   string     `json:"no_registrasi"`
	MedicalRecordNo  string     `json:"no_mr"`
	RegistrationDate time.Time  `json:"tanggal_registrasi"`
	ClaimNo          string     `json:"no_claim"`
	CardNo           string     `json:"no_kartu"`
	CoverageID       string     `json:"cov_id"`
	MemberName       string     `json:"nama_peserta"`
	Penjamin         string     `json:"penjamin"`
	DiagnosisCode    string     `json:"icd10"`
	BilledAmount     float64    `json:"total_tagihan"`
	ApprovedAmount   float64    `json:"total_disetujui"`
	DeclinedAmount   float64    `json:"total_ditolak"`
	ClaimStatus      string     `json:"claim_status"`
	ClaimDesc        string     `json:"claim_desc"`
	IsVoid           bool       `json:"is_void"`
	IsClaim          bool       `json:"is_claim"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	ClaimBy          *string    `json:"claim_by,omitempty"`
	ClaimAt          *time.Time `json:"claim_at,omitempty"`
	VoidBy           *string    `json:"void_by,omitempty"`
	VoidAt           *time.Time `json:"void_at,omitempty"`
	VoidReason       *string    `json:"void_reason,omitempty"`
}

// Benefit is one entitlement line returned by an eligibility check. Rows are
// immutable after insertion; only the registration number is re-keyed when a
// provisional identifier is promoted.
type Benefit struct {
	ID             uuid.UUID `json:"id"`
	RegistrationNo string    `json:"no_registrasi"`
	ClaimNo        string    `json:"no_claim"`
	BenID          string    `json:"ben_id"`
	BenName        string    `json:"ben_name"`
	AvailLimit     string    `json:"avail_limit"`
	FreqDesc       string    `json:"freq_desc"`
	LimitDesc      string    `json:"limit_desc"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransactionItem is one billed line item mapped to a benefit. The composite
// key (registration, claim, benefit, item code) is unique; inserting the same
// item twice is a no-op counted as skipped.
type TransactionItem struct {
	ID             uuid.UUID `json:"id"`
	RegistrationNo string    `json:"no_registrasi"`
	ClaimNo        string    `json:"no_claim"`
	BenID          string    `json:"ben_id"`
	ItemCode       string    `json:"kode_item"`
	ItemName       string    `json:"nama_item"`
	Qty            int       `json:"qty"`
	TotalPrice     float64   `json:"total_harga"`
	CreatedAt      time.Time `json:"created_at"`
}

// GatewayResponseRecord archives one full request/response exchange with the
// insurer. IsEligibility and IsClaim distinguish which lifecycle step produced
// it; the claim-flagged record for a (medical record, claim) pair is upserted
// at finalization time.
type GatewayResponseRecord struct {
	ID              uuid.UUID       `json:"id"`
	RegistrationNo  string          `json:"no_registrasi"`
	ClaimNo         string          `json:"no_claim"`
	MedicalRecordNo string          `json:"no_mr"`
	CardNo          string          `json:"no_kartu"`
	ServiceID       string          `json:"service_id"`
	RequestBody     json.RawMessage `json:"request_body,omitempty"`
	ResponseBody    json.RawMessage `json:"response_body,omitempty"`
	IsEligibility   bool            `json:"is_eligibility"`
	IsClaim         bool            `json:"is_claim"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ClaimPromotion carries the field set applied to a registration when its
// claim is finalized. The row is matched by ProvisionalNo.
type ClaimPromotion struct {
	ProvisionalNo  string
	FinalNo        string
	ClaimNo        string
	DiagnosisCode  string
	BilledAmount   float64
	ApprovedAmount float64
	DeclinedAmount float64
	ClaimStatus    string
	ClaimDesc      string
	ClaimBy        string
}
