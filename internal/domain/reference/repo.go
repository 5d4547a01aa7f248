package reference

import "context"

type Repository interface {
	ListCoverageTypes(ctx context.Context) ([]*CoverageType, error)
	ListDocumentTypes(ctx context.Context) ([]*DocumentType, error)
}
