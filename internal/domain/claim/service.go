// Package claim implements the claim transaction lifecycle: eligibility
// check, outpatient discharge submission, claim finalization with provisional
// identifier promotion, and open-transaction cancellation.
package claim

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medibridge/medibridge/internal/domain/registration"
	"github.com/medibridge/medibridge/internal/platform/gateway"
)

// GatewayCaller is the slice of the gateway client the orchestrator needs.
type GatewayCaller interface {
	Call(ctx context.Context, serviceID gateway.ServiceID, txnData any) (*gateway.Response, error)
}

// Service sequences gateway calls and the multi-step writes around them. It
// is the only component allowed to order cross-table mutations.
type Service struct {
	gw         GatewayCaller
	terminalID string
	regs       registration.RegistrationRepository
	bens       registration.BenefitRepository
	items      registration.TransactionItemRepository
	resps      registration.ResponseRecordRepository
	logger     zerolog.Logger
}

func NewService(gw GatewayCaller, terminalID string,
	regs registration.RegistrationRepository,
	bens registration.BenefitRepository,
	items registration.TransactionItemRepository,
	resps registration.ResponseRecordRepository,
	logger zerolog.Logger) *Service {
	return &Service{
		gw: gw, terminalID: terminalID,
		regs: regs, bens: bens, items: items, resps: resps,
		logger: logger,
	}
}

// CheckEligibility verifies coverage at the gateway and, when a registration
// draft is supplied, persists the registration, its benefit lines and the
// archived exchange. A store failure after gateway success is reported in the
// result without re-contacting the gateway.
func (s *Service) CheckEligibility(ctx context.Context, in EligibilityCheckInput) (*EligibilityCheckResult, error) {
	if in.CardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}
	if in.CovID == "" {
		return nil, &ValidationError{Msg: "coverage id is required"}
	}

	payload := gateway.NewEligibilityRequest(s.terminalID, in.CardNo, in.CovID)
	wrapped := payload["eligibilityRequest"]
	wrapped.Eligibility.DiagnosisCodeList = in.DiagnosisCodeList
	payload["eligibilityRequest"] = wrapped
	resp, err := s.gw.Call(ctx, gateway.ServiceEligibility, payload)
	if err != nil {
		return nil, err
	}

	elig, err := gateway.DecodeEligibility(resp.Output)
	if err != nil {
		return nil, &gateway.ProtocolError{StatusMsg: err.Error()}
	}

	result := &EligibilityCheckResult{
		Success:     true,
		Message:     resp.Output.StatusMsg,
		ReferenceID: resp.Output.ReferenceID,
		Eligibility: elig,
	}
	if in.Draft == nil {
		return result, nil
	}

	// Draft's payer label wins over the insurer's PayorName.
	penjamin := in.Draft.Penjamin
	if penjamin == "" {
		penjamin = elig.PayorName
	}

	reg := &registration.Registration{
		RegistrationNo:   in.Draft.RegistrationNo,
		MedicalRecordNo:  in.Draft.MedicalRecordNo,
		RegistrationDate: in.Draft.RegistrationDate,
		ClaimNo:          elig.ClID,
		CardNo:           in.CardNo,
		CoverageID:       in.CovID,
		MemberName:       elig.MemberName,
		Penjamin:         penjamin,
		ClaimStatus:      elig.ClStatus,
		ClaimDesc:        elig.ClDesc,
		CreatedBy:        in.Draft.CreatedBy,
	}
	if err := s.regs.Create(ctx, reg); err != nil {
		return s.reportPersistFailure(result, "create registration", err), nil
	}
	result.Registration = reg

	benefits := make([]*registration.Benefit, 0, len(elig.Entitlement))
	for _, e := range elig.Entitlement {
		benefits = append(benefits, &registration.Benefit{
			RegistrationNo: reg.RegistrationNo,
			ClaimNo:        elig.ClID,
			BenID:          e.BenID,
			BenName:        e.LongName,
			AvailLimit:     e.AvailLimit,
			FreqDesc:       e.FreqDesc,
			LimitDesc:      e.LimitDesc,
		})
	}
	if err := s.bens.CreateMany(ctx, benefits); err != nil {
		return s.reportPersistFailure(result, "create benefits", err), nil
	}
	result.BenefitCount = len(benefits)

	reqBody, _ := json.Marshal(payload)
	rec := &registration.GatewayResponseRecord{
		RegistrationNo:  reg.RegistrationNo,
		ClaimNo:         elig.ClID,
		MedicalRecordNo: reg.MedicalRecordNo,
		CardNo:          in.CardNo,
		ServiceID:       string(gateway.ServiceEligibility),
		RequestBody:     reqBody,
		ResponseBody:    resp.Raw,
		IsEligibility:   true,
		CreatedBy:       in.Draft.CreatedBy,
	}
	if err := s.resps.Create(ctx, rec); err != nil {
		return s.reportPersistFailure(result, "archive exchange", err), nil
	}

	result.Persisted = true
	return result, nil
}

func (s *Service) reportPersistFailure(result *EligibilityCheckResult, op string, err error) *EligibilityCheckResult {
	s.logger.Error().Err(err).Str("op", op).Msg("eligibility persistence failed after gateway success")
	result.Persisted = false
	result.PersistError = fmt.Sprintf("%s: %v", op, err)
	return result
}

// DischargeOP submits the billed entitlement lines for an outpatient
// discharge. An insurer-embedded failure status surfaces as a ProtocolError
// even though transport succeeded; nothing is persisted here.
func (s *Service) DischargeOP(ctx context.Context, in DischargeOPInput) (*DischargeOPResult, error) {
	if in.CardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}
	if len(in.Lines) == 0 {
		return nil, &ValidationError{Msg: "at least one entitlement line is required"}
	}

	entitlement := make([]gateway.DischargeEntitlement, 0, len(in.Lines))
	for _, line := range in.Lines {
		items := make([]gateway.DischargeItem, 0, len(line.Items))
		for _, it := range line.Items {
			items = append(items, gateway.DischargeItem{
				Code:     it.Code,
				Name:     it.Name,
				Qty:      strconv.Itoa(it.Qty),
				TotPrice: formatAmount(it.Total),
			})
		}
		entitlement = append(entitlement, gateway.DischargeEntitlement{
			BenID:       line.BenID,
			BenAmount:   formatAmount(line.Amount),
			BenItemList: items,
		})
	}

	payload := gateway.NewDischargeRequest(gateway.DischargeInput{
		TerminalID:        s.terminalID,
		CardNo:            in.CardNo,
		DiagnosisCodeList: in.DiagnosisCodeList,
		McDays:            strconv.Itoa(in.McDays),
		PhysicianName:     in.PhysicianName,
		AccidentFlag:      in.AccidentFlag,
		SurgicalFlag:      in.SurgicalFlag,
		Remarks:           in.Remarks,
		Entitlement:       entitlement,
	})

	resp, err := s.gw.Call(ctx, gateway.ServiceDischargeOP, payload)
	if err != nil {
		return nil, err
	}

	summary, err := gateway.DecodeDischarge(resp.Output)
	if err != nil {
		return nil, &gateway.ProtocolError{StatusMsg: err.Error()}
	}

	reqBody, _ := json.Marshal(payload)
	return &DischargeOPResult{
		Success:     true,
		Message:     resp.Output.StatusMsg,
		ReferenceID: resp.Output.ReferenceID,
		Summary:     summary,
		RawRequest:  reqBody,
		RawResponse: resp.Raw,
	}, nil
}

// SaveDischargeResult finalizes a claim. Steps, in order:
//
//  1. Promote the registration matched by the provisional number: real
//     number, amounts, is_claim=true. Fatal if no row matched.
//  2. Re-key benefit rows and archived exchanges from provisional to final.
//     Best effort: failures are logged as warnings, never rolled back,
//     because the registration update is the authoritative outcome.
//  3. Insert transaction items, skipping keys that already exist, so a
//     client retry cannot double-book financial rows. Fatal on store error.
//  4. Upsert the claim-flagged exchange record. Fatal on store error.
func (s *Service) SaveDischargeResult(ctx context.Context, in SaveDischargeInput) (*SaveDischargeResult, error) {
	if in.ProvisionalNo == "" || in.FinalNo == "" {
		return nil, &ValidationError{Msg: "provisional and final registration numbers are required"}
	}
	if in.ClaimNo == "" {
		return nil, &ValidationError{Msg: "claim number is required"}
	}
	if in.Actor == "" {
		return nil, &ValidationError{Msg: "claim actor is required"}
	}

	summary := decodeArchivedDischarge(in.RawResponse)

	promotion := registration.ClaimPromotion{
		ProvisionalNo:  in.ProvisionalNo,
		FinalNo:        in.FinalNo,
		ClaimNo:        in.ClaimNo,
		DiagnosisCode:  in.DiagnosisCode,
		BilledAmount:   parseAmount(summary.TotAmtIncurred),
		ApprovedAmount: parseAmount(summary.TotAmtApproved),
		DeclinedAmount: parseAmount(summary.TotAmtNotApproved),
		ClaimStatus:    summary.ClStatus,
		ClaimDesc:      summary.ClDesc,
		ClaimBy:        in.Actor,
	}
	rows, err := s.regs.PromoteClaim(ctx, promotion)
	if err != nil {
		return nil, &PersistenceError{Op: "promote registration", Err: err}
	}
	if rows == 0 {
		return nil, &PersistenceError{Op: "promote registration",
			Err: fmt.Errorf("no registration matched %s", in.ProvisionalNo)}
	}

	result := &SaveDischargeResult{Success: true}

	if in.ProvisionalNo != in.FinalNo {
		n, err := s.resps.Rekey(ctx, in.ProvisionalNo, in.FinalNo)
		if err != nil {
			s.warnRekey(result, "exchange archive", in.ProvisionalNo, err)
		} else {
			result.ResponsesRekeyed = n
		}
		n, err = s.bens.Rekey(ctx, in.ProvisionalNo, in.FinalNo)
		if err != nil {
			s.warnRekey(result, "benefits", in.ProvisionalNo, err)
		} else {
			result.BenefitsRekeyed = n
		}
	}

	for _, it := range in.Items {
		it.RegistrationNo = in.FinalNo
		it.ClaimNo = in.ClaimNo
	}
	inserted, skipped, err := s.items.CreateMissing(ctx, in.Items)
	result.ItemsInserted = inserted
	result.ItemsSkipped = skipped
	if err != nil {
		return nil, &PersistenceError{Op: "insert transaction items", Err: err}
	}

	rec := &registration.GatewayResponseRecord{
		RegistrationNo:  in.FinalNo,
		ClaimNo:         in.ClaimNo,
		MedicalRecordNo: in.MedicalRecordNo,
		CardNo:          in.CardNo,
		ServiceID:       string(gateway.ServiceDischargeOP),
		RequestBody:     in.RawRequest,
		ResponseBody:    in.RawResponse,
		IsClaim:         true,
		CreatedBy:       in.Actor,
	}
	if err := s.resps.UpsertClaim(ctx, rec); err != nil {
		return nil, &PersistenceError{Op: "archive claim exchange", Err: err}
	}

	result.Message = fmt.Sprintf("claim %s finalized, %d items inserted, %d skipped",
		in.ClaimNo, inserted, skipped)
	return result, nil
}

func (s *Service) warnRekey(result *SaveDischargeResult, what, provisionalNo string, err error) {
	s.logger.Warn().Err(err).
		Str("what", what).
		Str("no_registrasi_sementara", provisionalNo).
		Msg("re-key failed, registration update stands")
	result.Warnings = append(result.Warnings, fmt.Sprintf("re-key %s: %v", what, err))
}

// CancelOpenClaimsTxn cancels the card's open transaction at the gateway and,
// when a void actor is supplied, voids every matching registration that is
// neither voided nor claimed. Claimed rows are excluded by the statement's
// own predicate, not by application logic.
func (s *Service) CancelOpenClaimsTxn(ctx context.Context, cardNo, remarks, voidActor string) (*CancelResult, error) {
	if cardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}

	payload := gateway.NewCancelOpenClaimTxnRequest(s.terminalID, cardNo, remarks)
	resp, err := s.gw.Call(ctx, gateway.ServiceCancelOpenClaimsTxn, payload)
	if err != nil {
		return nil, err
	}

	result := &CancelResult{
		Success:     true,
		Message:     resp.Output.StatusMsg,
		ReferenceID: resp.Output.ReferenceID,
	}
	if body, err := gateway.DecodeCancelOpenClaimTxn(resp.Output); err == nil {
		result.Payload = body
	}

	if voidActor == "" {
		return result, nil
	}
	voided, err := s.regs.VoidByCardNo(ctx, cardNo, voidActor, remarks)
	if err != nil {
		return nil, &PersistenceError{Op: "void registrations", Err: err}
	}
	result.VoidedCount = voided
	result.Message = fmt.Sprintf("%s (%d registration(s) voided)", resp.Output.StatusMsg, voided)
	return result, nil
}

// GetEntitlement looks up the card's benefit entitlements at the gateway.
func (s *Service) GetEntitlement(ctx context.Context, cardNo string) (*PassthroughResult, error) {
	if cardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}
	resp, err := s.gw.Call(ctx, gateway.ServiceGetEntitlement, gateway.NewGetEntitlementRequest(s.terminalID, cardNo))
	if err != nil {
		return nil, err
	}
	return passthrough(resp, gateway.DecodeGetEntitlement)
}

// GetMemberEnrolledPlanTC fetches the member's plan terms and conditions.
func (s *Service) GetMemberEnrolledPlanTC(ctx context.Context, cardNo, covID, search string) (*PassthroughResult, error) {
	if cardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}
	resp, err := s.gw.Call(ctx, gateway.ServiceMemberEnrolledPlan, gateway.NewMemberEnrolledPlanRequest(cardNo, covID, search))
	if err != nil {
		return nil, err
	}
	return passthrough(resp, gateway.DecodeMemberEnrolledPlan)
}

// CheckICDExclusion asks the insurer whether the diagnosis codes are excluded
// from the member's plan.
func (s *Service) CheckICDExclusion(ctx context.Context, cardNo, covID, diagnosisCodeList string) (*PassthroughResult, error) {
	if cardNo == "" {
		return nil, &ValidationError{Msg: "card number is required"}
	}
	if diagnosisCodeList == "" {
		return nil, &ValidationError{Msg: "diagnosis code list is required"}
	}
	resp, err := s.gw.Call(ctx, gateway.ServiceCheckICDExclusion, gateway.NewICDExclusionRequest(cardNo, covID, diagnosisCodeList))
	if err != nil {
		return nil, err
	}
	return passthrough(resp, gateway.DecodeICDExclusion)
}

// HelloWorld probes gateway connectivity and credentials.
func (s *Service) HelloWorld(ctx context.Context, customerID string) (*PassthroughResult, error) {
	resp, err := s.gw.Call(ctx, gateway.ServiceHelloWorld, gateway.NewHelloRequest(customerID))
	if err != nil {
		return nil, err
	}
	return passthrough(resp, gateway.DecodeHelloWorld)
}

func passthrough(resp *gateway.Response, decode func(gateway.Output) (json.RawMessage, error)) (*PassthroughResult, error) {
	body, err := decode(resp.Output)
	if err != nil {
		return nil, &gateway.ProtocolError{StatusMsg: err.Error()}
	}
	return &PassthroughResult{
		Success:     true,
		Message:     resp.Output.StatusMsg,
		ReferenceID: resp.Output.ReferenceID,
		Payload:     body,
	}, nil
}

// decodeArchivedDischarge pulls the claim summary out of the archived
// discharge exchange. A summary that does not decode leaves the amounts at
// zero; the finalization itself still proceeds.
func decodeArchivedDischarge(raw json.RawMessage) gateway.DischargeSummary {
	var env gateway.ResponseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return gateway.DischargeSummary{}
	}
	summary, err := gateway.DecodeDischarge(env.Output)
	if err != nil || summary == nil {
		return gateway.DischargeSummary{}
	}
	return *summary
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
