package registration

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	regs  RegistrationRepository
	bens  BenefitRepository
	items TransactionItemRepository
	resps ResponseRecordRepository
}

func NewService(regs RegistrationRepository, bens BenefitRepository, items TransactionItemRepository, resps ResponseRecordRepository) *Service {
	return &Service{regs: regs, bens: bens, items: items, resps: resps}
}

// Detail is a registration with its benefit entitlement lines.
type Detail struct {
	Registration *Registration `json:"registration"`
	Benefits     []*Benefit    `json:"benefits"`
}

// BenefitItems groups billed items under the benefit they were mapped to.
type BenefitItems struct {
	BenID string             `json:"ben_id"`
	Items []*TransactionItem `json:"items"`
}

func (s *Service) GetDetail(ctx context.Context, registrationNo string) (*Detail, error) {
	if registrationNo == "" {
		return nil, fmt.Errorf("registration number is required")
	}
	reg, err := s.regs.GetByRegistrationNo(ctx, registrationNo)
	if err != nil {
		return nil, err
	}
	bens, err := s.bens.ListByRegistrationNo(ctx, registrationNo)
	if err != nil {
		return nil, err
	}
	return &Detail{Registration: reg, Benefits: bens}, nil
}

func (s *Service) GetActive(ctx context.Context, medicalRecordNo string, date time.Time) (*Registration, error) {
	if medicalRecordNo == "" {
		return nil, fmt.Errorf("medical record number is required")
	}
	return s.regs.GetActive(ctx, medicalRecordNo, date)
}

func (s *Service) History(ctx context.Context, medicalRecordNo string, limit, offset int) ([]*Registration, int, error) {
	return s.regs.HistoryByMR(ctx, medicalRecordNo, limit, offset)
}

func (s *Service) EligibilityResponses(ctx context.Context, medicalRecordNo string, limit, offset int) ([]*GatewayResponseRecord, int, error) {
	return s.resps.ListByMR(ctx, medicalRecordNo, false, limit, offset)
}

func (s *Service) ClaimResponses(ctx context.Context, medicalRecordNo string, limit, offset int) ([]*GatewayResponseRecord, int, error) {
	return s.resps.ListByMR(ctx, medicalRecordNo, true, limit, offset)
}

func (s *Service) ItemsByRegistration(ctx context.Context, registrationNo string) ([]*BenefitItems, error) {
	items, err := s.items.ListByRegistrationNo(ctx, registrationNo)
	if err != nil {
		return nil, err
	}
	return groupByBenefit(items), nil
}

func (s *Service) ItemsByClaim(ctx context.Context, claimNo string) ([]*BenefitItems, error) {
	items, err := s.items.ListByClaimNo(ctx, claimNo)
	if err != nil {
		return nil, err
	}
	return groupByBenefit(items), nil
}

// groupByBenefit preserves the repository's ben_id ordering.
func groupByBenefit(items []*TransactionItem) []*BenefitItems {
	var groups []*BenefitItems
	index := map[string]*BenefitItems{}
	for _, it := range items {
		g, ok := index[it.BenID]
		if !ok {
			g = &BenefitItems{BenID: it.BenID}
			index[it.BenID] = g
			groups = append(groups, g)
		}
		g.Items = append(g.Items, it)
	}
	return groups
}
