package document

import "context"

type UploadRecordRepository interface {
	Create(ctx context.Context, rec *UploadRecord) error
	GetByBlobKey(ctx context.Context, blobKey string) (*UploadRecord, error)
	ListByRegistrationNo(ctx context.Context, registrationNo string, limit, offset int) ([]*UploadRecord, int, error)
}
