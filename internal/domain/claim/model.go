package claim

import (
	"encoding/json"
	"time"

	"github.com/medibridge/medibridge/internal/domain/registration"
	"github.com/medibridge/medibridge/internal/platform/gateway"
)

// RegistrationDraft is the caller-supplied registration to persist when an
// eligibility check succeeds. Penjamin from the draft always wins over the
// insurer's payer label, which is known to be generic.
type RegistrationDraft struct {
	RegistrationNo   string    `json:"no_registrasi"`
	MedicalRecordNo  string    `json:"no_mr"`
	RegistrationDate time.Time `json:"tanggal_registrasi"`
	CoverageID       string    `json:"cov_id"`
	Penjamin         string    `json:"penjamin"`
	CreatedBy        string    `json:"created_by"`
}

// EligibilityCheckInput is the CheckEligibility request.
type EligibilityCheckInput struct {
	CardNo            string             `json:"no_kartu"`
	CovID             string             `json:"cov_id"`
	DiagnosisCodeList string             `json:"diagnosis_code_list"`
	Draft             *RegistrationDraft `json:"draft,omitempty"`
}

// EligibilityCheckResult is the CheckEligibility outcome. When a draft was
// supplied and the gateway accepted, Registration and BenefitCount describe
// what was persisted. A persistence failure after gateway success does not
// fail the call; it is reported through Persisted and PersistError.
type EligibilityCheckResult struct {
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	ReferenceID  string                     `json:"reference_id,omitempty"`
	Eligibility  *gateway.Eligibility       `json:"eligibility,omitempty"`
	Registration *registration.Registration `json:"registration,omitempty"`
	BenefitCount int                        `json:"benefit_count"`
	Persisted    bool                       `json:"persisted"`
	PersistError string                     `json:"persist_error,omitempty"`
}

// DischargeLineItem is one billed item under a benefit line.
type DischargeLineItem struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Total float64 `json:"total"`
}

// DischargeLine maps billed items to one benefit entitlement.
type DischargeLine struct {
	BenID  string              `json:"ben_id"`
	Amount float64             `json:"amount"`
	Items  []DischargeLineItem `json:"items"`
}

// DischargeOPInput is the DischargeOP request.
type DischargeOPInput struct {
	CardNo            string          `json:"no_kartu"`
	DiagnosisCodeList string          `json:"diagnosis_code_list"`
	McDays            int             `json:"mc_days"`
	PhysicianName     string          `json:"physician_name"`
	AccidentFlag      string          `json:"accident_flag"`
	SurgicalFlag      string          `json:"surgical_flag"`
	Remarks           string          `json:"remarks"`
	Lines             []DischargeLine `json:"lines"`
}

// DischargeOPResult carries the insurer's claim summary plus the raw exchange
// for the caller to archive through SaveDischargeResult.
type DischargeOPResult struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	ReferenceID string                    `json:"reference_id,omitempty"`
	Summary     *gateway.DischargeSummary `json:"summary,omitempty"`
	RawRequest  json.RawMessage           `json:"raw_request,omitempty"`
	RawResponse json.RawMessage           `json:"raw_response,omitempty"`
}

// SaveDischargeInput is the claim-finalization request: promote the
// provisional registration number to the real one and record the financials.
type SaveDischargeInput struct {
	ProvisionalNo   string                          `json:"no_registrasi_sementara"`
	FinalNo         string                          `json:"no_registrasi"`
	MedicalRecordNo string                          `json:"no_mr"`
	ClaimNo         string                          `json:"no_claim"`
	CardNo          string                          `json:"no_kartu"`
	Actor           string                          `json:"claim_by"`
	DiagnosisCode   string                          `json:"icd10"`
	RawRequest      json.RawMessage                 `json:"raw_request,omitempty"`
	RawResponse     json.RawMessage                 `json:"raw_response"`
	Items           []*registration.TransactionItem `json:"items"`
}

// SaveDischargeResult reports the outcome of each finalization step.
// Warnings carry non-fatal re-keying failures; the registration update stands
// regardless.
type SaveDischargeResult struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	ItemsInserted    int      `json:"items_inserted"`
	ItemsSkipped     int      `json:"items_skipped"`
	BenefitsRekeyed  int64    `json:"benefits_rekeyed"`
	ResponsesRekeyed int64    `json:"responses_rekeyed"`
	Warnings         []string `json:"warnings,omitempty"`
}

// CancelResult is the CancelOpenClaimsTxn outcome. VoidedCount is zero when
// no void actor was supplied or no row matched the void predicate.
type CancelResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	ReferenceID string          `json:"reference_id,omitempty"`
	VoidedCount int64           `json:"voided_count"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// PassthroughResult wraps the simple gateway lookups that have no local
// persistence (entitlement, enrolled plan, ICD exclusion, hello).
type PassthroughResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}
