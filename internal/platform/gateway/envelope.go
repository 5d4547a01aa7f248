package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ServiceID identifies a gateway operation.
type ServiceID string

const (
	ServiceEligibility         ServiceID = "ELIGIBILITY"
	ServiceCancelOpenClaimsTxn ServiceID = "CANCEL_OPEN_CLAIMS_TXN"
	ServiceGetEntitlement      ServiceID = "GET_ENTITLEMENT"
	ServiceDischargeOP         ServiceID = "DISCHARGE_OP"
	ServiceEdocsUpload         ServiceID = "EDOCS_UPLOAD"
	ServiceMemberEnrolledPlan  ServiceID = "GET_MEMBER_ENROLLED_PLAN_TC"
	ServiceCheckICDExclusion   ServiceID = "CHECK_ICD_EXCLUSION"
	ServiceHelloWorld          ServiceID = "HELLO_WORLD"
)

// StatusCode is the gateway result code. The insurer emits it inconsistently
// as a JSON string ("00") or number (0), so decoding accepts both and OK()
// is the single comparison point.
type StatusCode string

func (s *StatusCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = StatusCode(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("statusCode is neither string nor number: %w", err)
	}
	*s = StatusCode(n.String())
	return nil
}

// OK reports whether the code means success. "00" and 0 are both success on
// the wire; 200 appears on the upload path.
func (s StatusCode) OK() bool {
	switch string(s) {
	case "00", "0", "200":
		return true
	}
	return false
}

// Int returns the numeric value of the code, or -1 if it is not numeric.
func (s StatusCode) Int() int {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return -1
	}
	return n
}

// RequestEnvelope is the outer request object POSTed to the gateway.
type RequestEnvelope struct {
	Input Input `json:"input"`
}

// Input carries the authenticated request. TxnData holds exactly one
// service-specific request wrapper.
type Input struct {
	TokenAuth          string    `json:"tokenAuth"`
	ServiceID          ServiceID `json:"serviceID"`
	CustomerID         string    `json:"customerID"`
	RequestID          string    `json:"requestID"`
	TxnData            any       `json:"txnData"`
	TxnRequestDateTime string    `json:"txnRequestDateTime"`
}

// ResponseEnvelope is the outer response object.
type ResponseEnvelope struct {
	Output Output `json:"output"`
}

// Output is the gateway response body. TxnData is kept raw and decoded per
// service with the Decode* helpers.
type Output struct {
	StatusCode          StatusCode      `json:"statusCode"`
	StatusMsg           string          `json:"statusMsg"`
	ReferenceID         string          `json:"referenceID"`
	TxnData             json.RawMessage `json:"txnData"`
	TxnResponseDatetime string          `json:"txnResponseDatetime"`
	Server              string          `json:"server"`
}

// -- Service-specific request payloads --

// EligibilityRequest wraps the ELIGIBILITY txnData.
type EligibilityRequest struct {
	Eligibility EligibilityInput `json:"eligibility"`
}

// EligibilityInput mirrors the insurer's eligibility request. All fields are
// sent even when empty, as the gateway requires the full shape.
type EligibilityInput struct {
	TerminalID        string `json:"terminalID"`
	CardNo            string `json:"cardNo"`
	CovID             string `json:"covID"`
	DiagnosisCodeList string `json:"diagnosisCodeList"`
	ProviderTransID   string `json:"providerTransID"`
	NationalID        string `json:"nationalID"`
	FamilyCardID      string `json:"familyCardID"`
	PhysicianName     string `json:"physicianName"`
	AccidentFlag      string `json:"accidentFlag"`
	SurgicalFlag      string `json:"surgicalFlag"`
	RoomType          string `json:"roomType"`
	RoomPrice         string `json:"roomPrice"`
	Remarks           string `json:"remarks"`
}

func NewEligibilityRequest(terminalID, cardNo, covID string) map[string]EligibilityRequest {
	return map[string]EligibilityRequest{
		"eligibilityRequest": {Eligibility: EligibilityInput{
			TerminalID: terminalID,
			CardNo:     cardNo,
			CovID:      covID,
		}},
	}
}

// CancelOpenClaimTxnInput is the CANCEL_OPEN_CLAIMS_TXN request body.
type CancelOpenClaimTxnInput struct {
	TerminalID string `json:"terminalID"`
	CardNo     string `json:"cardNo"`
	Remarks    string `json:"remarks"`
}

func NewCancelOpenClaimTxnRequest(terminalID, cardNo, remarks string) map[string]map[string]CancelOpenClaimTxnInput {
	return map[string]map[string]CancelOpenClaimTxnInput{
		"cancelOpenClaimTxnRequest": {"cancelOpenClaimTxn": {
			TerminalID: terminalID,
			CardNo:     cardNo,
			Remarks:    remarks,
		}},
	}
}

// GetEntitlementInput is the GET_ENTITLEMENT request body.
type GetEntitlementInput struct {
	TerminalID string `json:"terminalID"`
	CardNo     string `json:"cardNo"`
}

func NewGetEntitlementRequest(terminalID, cardNo string) map[string]map[string]GetEntitlementInput {
	return map[string]map[string]GetEntitlementInput{
		"getEntitlementRequest": {"getEntitlement": {TerminalID: terminalID, CardNo: cardNo}},
	}
}

// DischargeEntitlement is one benefit line in a DISCHARGE_OP request. The
// insurer requires every numeric field rendered as a string.
type DischargeEntitlement struct {
	BenID       string          `json:"benID"`
	BenAmount   string          `json:"benAmount"`
	BenItemList []DischargeItem `json:"benItemList"`
}

// DischargeItem is one billed line item under a benefit.
type DischargeItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Qty      string `json:"qty"`
	TotPrice string `json:"totPrice"`
}

// DischargeInput is the DISCHARGE_OP request body.
type DischargeInput struct {
	TerminalID        string                 `json:"terminalID"`
	CardNo            string                 `json:"cardNo"`
	DiagnosisCodeList string                 `json:"diagnosisCodeList"`
	McDays            string                 `json:"mcDays"`
	PhysicianName     string                 `json:"physicianName"`
	AccidentFlag      string                 `json:"accidentFlag"`
	SurgicalFlag      string                 `json:"surgicalFlag"`
	Remarks           string                 `json:"remarks"`
	Entitlement       []DischargeEntitlement `json:"entitlement"`
}

func NewDischargeRequest(in DischargeInput) map[string]map[string]DischargeInput {
	if in.AccidentFlag == "" {
		in.AccidentFlag = "N"
	}
	if in.SurgicalFlag == "" {
		in.SurgicalFlag = "N"
	}
	return map[string]map[string]DischargeInput{
		"dischargeRequest": {"discharge": in},
	}
}

// MemberEnrolledPlanInput is the GET_MEMBER_ENROLLED_PLAN_TC request body.
type MemberEnrolledPlanInput struct {
	CardNo                 string `json:"cardNo"`
	CovID                  string `json:"covID"`
	SearchForTermCondition string `json:"searchForTermCondition"`
}

func NewMemberEnrolledPlanRequest(cardNo, covID, search string) map[string]map[string]MemberEnrolledPlanInput {
	return map[string]map[string]MemberEnrolledPlanInput{
		"getMemberEnrolledPlanTCRequest": {"getMemberEnrolledPlanTC": {
			CardNo: cardNo, CovID: covID, SearchForTermCondition: search,
		}},
	}
}

// ICDExclusionInput is the CHECK_ICD_EXCLUSION request body.
type ICDExclusionInput struct {
	CardNo            string `json:"cardNo"`
	CovID             string `json:"covID"`
	DiagnosisCodeList string `json:"diagnosisCodeList"`
}

func NewICDExclusionRequest(cardNo, covID, diagnosisCodeList string) map[string]map[string]ICDExclusionInput {
	return map[string]map[string]ICDExclusionInput{
		"checkIcdExclusionRequest": {"checkIcdExclusion": {
			CardNo: cardNo, CovID: covID, DiagnosisCodeList: diagnosisCodeList,
		}},
	}
}

// NewHelloRequest builds the HELLO_WORLD txnData.
func NewHelloRequest(customerID string) map[string]map[string]string {
	return map[string]map[string]string{
		"helloRequest": {"customerID": customerID},
	}
}

// EdocsUploadInput is the JSON part of an EDOCS_UPLOAD multipart request.
type EdocsUploadInput struct {
	CardNo      string `json:"cardNo"`
	ClID        string `json:"clID"`
	DocType     string `json:"docType"`
	Remarks     string `json:"remarks"`
	PatientName string `json:"patientName"`
}

func NewEdocsUploadRequest(in EdocsUploadInput) map[string]map[string]EdocsUploadInput {
	return map[string]map[string]EdocsUploadInput{
		"edocsUploadRequest": {"edocsUpload": in},
	}
}

// -- Service-specific response payloads --

// Entitlement is one benefit entitlement line in an eligibility response.
type Entitlement struct {
	BenID      string `json:"benID"`
	LongName   string `json:"longName"`
	AvailLimit string `json:"availLimit"`
	FreqDesc   string `json:"freqDesc"`
	LimitDesc  string `json:"limitDesc"`
}

// Eligibility is the member/claim section of an eligibility response.
type Eligibility struct {
	ClID        string        `json:"clID"`
	CardNo      string        `json:"cardNo"`
	MemberName  string        `json:"memberName"`
	DOB         string        `json:"dob"`
	ClStatus    string        `json:"clStatus"`
	ClDesc      string        `json:"clDesc"`
	PayorName   string        `json:"PayorName"`
	Entitlement []Entitlement `json:"entitlement"`
}

type eligibilityResponse struct {
	EligibilityResponse struct {
		Eligibility Eligibility `json:"eligibility"`
	} `json:"eligibilityResponse"`
}

// DecodeEligibility extracts the ELIGIBILITY payload from a response output.
func DecodeEligibility(out Output) (*Eligibility, error) {
	var w eligibilityResponse
	if err := json.Unmarshal(out.TxnData, &w); err != nil {
		return nil, fmt.Errorf("decode eligibility payload: %w", err)
	}
	return &w.EligibilityResponse.Eligibility, nil
}

// DischargeSummary carries the claim totals from a discharge response. The
// gateway uses two wrapper spellings for the same shape: dischargeResponse
// on the immediate DISCHARGE_OP reply and dischargeRequestResponse on the
// archived exchange submitted at finalization time.
type DischargeSummary struct {
	ClID              string `json:"clID"`
	TotAmtIncurred    string `json:"totAmtIncurred"`
	TotAmtApproved    string `json:"totAmtApproved"`
	TotAmtNotApproved string `json:"totAmtNotApproved"`
	ClStatus          string `json:"clStatus"`
	ClDesc            string `json:"clDesc"`
}

type dischargeResponse struct {
	DischargeResponse struct {
		Discharge DischargeSummary `json:"discharge"`
	} `json:"dischargeResponse"`
	DischargeRequestResponse struct {
		DischargeRequest DischargeSummary `json:"dischargeRequest"`
	} `json:"dischargeRequestResponse"`
}

// DecodeDischarge extracts the discharge summary from either wrapper form.
func DecodeDischarge(out Output) (*DischargeSummary, error) {
	var w dischargeResponse
	if err := json.Unmarshal(out.TxnData, &w); err != nil {
		return nil, fmt.Errorf("decode discharge payload: %w", err)
	}
	if w.DischargeRequestResponse.DischargeRequest != (DischargeSummary{}) {
		return &w.DischargeRequestResponse.DischargeRequest, nil
	}
	return &w.DischargeResponse.Discharge, nil
}

// DecodeCancelOpenClaimTxn extracts the CANCEL_OPEN_CLAIMS_TXN payload.
func DecodeCancelOpenClaimTxn(out Output) (json.RawMessage, error) {
	return decodeNested(out.TxnData, "cancelOpenClaimTxnResponse", "cancelOpenClaimTxn")
}

// DecodeGetEntitlement extracts the GET_ENTITLEMENT payload.
func DecodeGetEntitlement(out Output) (json.RawMessage, error) {
	return decodeNested(out.TxnData, "getEntitlementResponse", "getEntitlement")
}

// DecodeMemberEnrolledPlan extracts the GET_MEMBER_ENROLLED_PLAN_TC payload.
func DecodeMemberEnrolledPlan(out Output) (json.RawMessage, error) {
	return decodeNested(out.TxnData, "getMemberEnrolledPlanTCResponse", "getMemberEnrolledPlanTC")
}

// DecodeICDExclusion extracts the CHECK_ICD_EXCLUSION payload.
func DecodeICDExclusion(out Output) (json.RawMessage, error) {
	return decodeNested(out.TxnData, "checkIcdExclusionResponse", "checkIcdExclusion")
}

// DecodeHelloWorld extracts the HELLO_WORLD payload.
func DecodeHelloWorld(out Output) (json.RawMessage, error) {
	return decodeNested(out.TxnData, "helloResponse", "helloWorld")
}

func decodeNested(raw json.RawMessage, outerKey, innerKey string) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, fmt.Errorf("decode txnData: %w", err)
	}
	inner, ok := outer[outerKey]
	if !ok {
		return nil, nil
	}
	var innerMap map[string]json.RawMessage
	if err := json.Unmarshal(inner, &innerMap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", outerKey, err)
	}
	return innerMap[innerKey], nil
}
