// Package reference serves the lookup tables behind the eligibility and
// upload forms: insurer coverage types and accepted document types.
package reference

// CoverageType is one insurer coverage category (cov_id on the wire).
type CoverageType struct {
	CovID    string `json:"cov_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// DocumentType is one document category the insurer accepts on upload.
type DocumentType struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
