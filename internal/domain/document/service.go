package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/medibridge/medibridge/internal/platform/blobstore"
	"github.com/medibridge/medibridge/internal/platform/gateway"
)

// GatewayUploader is the slice of the gateway client the document path needs.
type GatewayUploader interface {
	Upload(ctx context.Context, in gateway.EdocsUploadInput, filename, contentType string, file []byte) (*gateway.Response, error)
}

// PresignTTL bounds how long a download link stays valid.
const PresignTTL = 15 * time.Minute

type Service struct {
	gw     GatewayUploader
	blobs  blobstore.Store
	repo   UploadRecordRepository
	logger zerolog.Logger
}

func NewService(gw GatewayUploader, blobs blobstore.Store, repo UploadRecordRepository, logger zerolog.Logger) *Service {
	return &Service{gw: gw, blobs: blobs, repo: repo, logger: logger}
}

// Upload sends the document to the insurer first; only an accepted document
// is archived locally. The gateway call is the authoritative step, so a local
// archive failure is surfaced but the insurer is never re-contacted.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.RegistrationNo == "" {
		return nil, fmt.Errorf("registration number is required")
	}
	if in.CardNo == "" {
		return nil, fmt.Errorf("card number is required")
	}
	if in.DocType == "" {
		return nil, fmt.Errorf("document type is required")
	}
	if len(in.Content) == 0 {
		return nil, fmt.Errorf("document content is required")
	}

	resp, err := s.gw.Upload(ctx, gateway.EdocsUploadInput{
		CardNo:      in.CardNo,
		ClID:        in.ClaimNo,
		DocType:     in.DocType,
		Remarks:     in.Remarks,
		PatientName: in.PatientName,
	}, in.FileName, in.ContentType, in.Content)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s", in.RegistrationNo, in.DocType, in.FileName)
	if _, err := s.blobs.Put(ctx, key, in.ContentType, map[string]string{
		"no_registrasi": in.RegistrationNo,
		"no_claim":      in.ClaimNo,
		"doc_type":      in.DocType,
		"created_by":    in.CreatedBy,
	}, bytes.NewReader(in.Content)); err != nil {
		return nil, fmt.Errorf("archive document: %w", err)
	}

	rec := &UploadRecord{
		RegistrationNo: in.RegistrationNo,
		ClaimNo:        in.ClaimNo,
		CardNo:         in.CardNo,
		DocType:        in.DocType,
		FileName:       in.FileName,
		ContentType:    in.ContentType,
		Size:           int64(len(in.Content)),
		BlobKey:        key,
		GatewayStatus:  string(resp.Output.StatusCode),
		GatewayMsg:     resp.Output.StatusMsg,
		CreatedBy:      in.CreatedBy,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("blob_key", key).Msg("upload record insert failed after gateway accept")
		return nil, fmt.Errorf("record upload: %w", err)
	}

	return &UploadResult{
		Success: true,
		Message: resp.Output.StatusMsg,
		Record:  rec,
	}, nil
}

// History lists uploads for a registration, newest first.
func (s *Service) History(ctx context.Context, registrationNo string, limit, offset int) ([]*UploadRecord, int, error) {
	return s.repo.ListByRegistrationNo(ctx, registrationNo, limit, offset)
}

// Download streams an archived document.
func (s *Service) Download(ctx context.Context, blobKey string) (io.ReadCloser, *UploadRecord, error) {
	rec, err := s.repo.GetByBlobKey(ctx, blobKey)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.blobs.Get(ctx, blobKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, rec, nil
}

// PresignDownload issues a time-limited link for an archived document.
func (s *Service) PresignDownload(ctx context.Context, blobKey string) (string, error) {
	if _, err := s.repo.GetByBlobKey(ctx, blobKey); err != nil {
		return "", err
	}
	return s.blobs.Presign(ctx, blobKey, PresignTTL)
}
