package registration

import (
	"context"
	"time"
)

type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	GetByRegistrationNo(ctx context.Context, registrationNo string) (*Registration, error)
	GetActive(ctx context.Context, medicalRecordNo string, date time.Time) (*Registration, error)
	HistoryByMR(ctx context.Context, medicalRecordNo string, limit, offset int) ([]*Registration, int, error)
	// PromoteClaim applies the finalization fields to the row matched by the
	// provisional number and returns the number of rows updated.
	PromoteClaim(ctx context.Context, p ClaimPromotion) (int64, error)
	// VoidByCardNo voids every non-voided, non-claimed registration for the
	// card. The is_claim predicate lives in the statement itself so a
	// concurrent finalization cannot be voided by a racing cancel.
	VoidByCardNo(ctx context.Context, cardNo, actor, reason string) (int64, error)
}

type BenefitRepository interface {
	CreateMany(ctx context.Context, benefits []*Benefit) error
	ListByRegistrationNo(ctx context.Context, registrationNo string) ([]*Benefit, error)
	// Rekey moves benefit rows from a provisional registration number to the
	// final one and returns the number of rows moved.
	Rekey(ctx context.Context, oldNo, newNo string) (int64, error)
}

type TransactionItemRepository interface {
	// CreateMissing inserts each item unless a row already exists for the
	// same (registration, claim, item code) key, and reports how many were
	// inserted vs skipped. Items are processed one at a time so the counts
	// stay exact.
	CreateMissing(ctx context.Context, items []*TransactionItem) (inserted, skipped int, err error)
	ListByRegistrationNo(ctx context.Context, registrationNo string) ([]*TransactionItem, error)
	ListByClaimNo(ctx context.Context, claimNo string) ([]*TransactionItem, error)
}

type ResponseRecordRepository interface {
	Create(ctx context.Context, rec *GatewayResponseRecord) error
	// Rekey moves archived exchanges from a provisional registration number
	// to the final one.
	Rekey(ctx context.Context, oldNo, newNo string) (int64, error)
	// UpsertClaim inserts the claim-flagged record, or replaces the payload
	// of an existing record for the same (medical record, claim) pair.
	UpsertClaim(ctx context.Context, rec *GatewayResponseRecord) error
	ListByMR(ctx context.Context, medicalRecordNo string, claimOnly bool, limit, offset int) ([]*GatewayResponseRecord, int, error)
}
