// Package document handles claim supporting documents: upload to the insurer
// via EDOCS_UPLOAD, archival in the object store and the upload history.
package document

import (
	"time"

	"github.com/google/uuid"
)

// UploadRecord is one document uploaded for a registration.
type UploadRecord struct {
	ID             uuid.UUID `json:"id"`
	RegistrationNo string    `json:"no_registrasi"`
	ClaimNo        string    `json:"no_claim"`
	CardNo         string    `json:"no_kartu"`
	DocType        string    `json:"doc_type"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	Size           int64     `json:"size"`
	BlobKey        string    `json:"blob_key"`
	GatewayStatus  string    `json:"gateway_status"`
	GatewayMsg     string    `json:"gateway_msg"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// UploadInput is the Upload request.
type UploadInput struct {
	RegistrationNo string
	ClaimNo        string
	CardNo         string
	DocType        string
	PatientName    string
	Remarks        string
	FileName       string
	ContentType    string
	Content        []byte
	CreatedBy      string
}

// UploadResult reports the gateway outcome and the archived record.
type UploadResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Record  *UploadRecord `json:"record,omitempty"`
}
