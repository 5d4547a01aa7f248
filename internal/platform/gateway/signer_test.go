package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"testing"
	"time"
)

func refToken(customerID, securityWord, timestamp, requestID, serviceID string) string {
	inner := sha256.Sum256([]byte(securityWord))
	raw := customerID + ":" + hex.EncodeToString(inner[:]) + ":" + timestamp + ":" + requestID + ":" + serviceID
	outer := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(outer[:])
}

func TestSign_MatchesReferenceConstruction(t *testing.T) {
	got := Sign("HOSP01", "s3cret", "20250601143000", "12345", ServiceEligibility)
	want := refToken("HOSP01", "s3cret", "20250601143000", "12345", "ELIGIBILITY")
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestSign_Deterministic(t *testing.T) {
	a := Sign("HOSP01", "s3cret", "20250601143000", "54321", ServiceDischargeOP)
	b := Sign("HOSP01", "s3cret", "20250601143000", "54321", ServiceDischargeOP)
	if a != b {
		t.Errorf("same inputs produced different tokens: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
}

func TestSign_EveryFieldChangesToken(t *testing.T) {
	base := Sign("HOSP01", "s3cret", "20250601143000", "12345", ServiceEligibility)

	variants := map[string]string{
		"customerID": Sign("HOSP02", "s3cret", "20250601143000", "12345", ServiceEligibility),
		"secret":     Sign("HOSP01", "s3cret2", "20250601143000", "12345", ServiceEligibility),
		"timestamp":  Sign("HOSP01", "s3cret", "20250601143001", "12345", ServiceEligibility),
		"requestID":  Sign("HOSP01", "s3cret", "20250601143000", "12346", ServiceEligibility),
		"serviceID":  Sign("HOSP01", "s3cret", "20250601143000", "12345", ServiceGetEntitlement),
	}
	for field, token := range variants {
		if token == base {
			t.Errorf("changing %s did not change the token", field)
		}
	}
}

func TestSigner_RequestID_FiveDigits(t *testing.T) {
	s := NewSigner("HOSP01", "s3cret")
	pattern := regexp.MustCompile(`^\d{5}$`)
	for i := 0; i < 100; i++ {
		id := s.RequestID()
		if !pattern.MatchString(id) {
			t.Fatalf("request ID %q is not a 5-digit string", id)
		}
	}
}

func TestSigner_RequestID_Bounds(t *testing.T) {
	low := NewSigner("x", "y", WithRandInt(func(int) int { return 0 }))
	if got := low.RequestID(); got != "10000" {
		t.Errorf("lowest request ID = %s, want 10000", got)
	}
	high := NewSigner("x", "y", WithRandInt(func(int) int { return 89999 }))
	if got := high.RequestID(); got != "99999" {
		t.Errorf("highest request ID = %s, want 99999", got)
	}
}

func TestSigner_Timestamp_WIB(t *testing.T) {
	// 2025-06-01 00:30:00 UTC is 07:30:00 the same day in UTC+7.
	fixed := time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC)
	s := NewSigner("HOSP01", "s3cret", WithClock(func() time.Time { return fixed }))
	if got := s.Timestamp(); got != "20250601073000" {
		t.Errorf("Timestamp() = %s, want 20250601073000", got)
	}
}

func TestSigner_Timestamp_DateRollover(t *testing.T) {
	// 18:00 UTC rolls to 01:00 next day in UTC+7.
	fixed := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	s := NewSigner("HOSP01", "s3cret", WithClock(func() time.Time { return fixed }))
	if got := s.Timestamp(); got != "20250602010000" {
		t.Errorf("Timestamp() = %s, want 20250602010000", got)
	}
}

func TestSigner_Credentials(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 7, 0, 0, 0, wib)
	s := NewSigner("HOSP01", "s3cret",
		WithClock(func() time.Time { return fixed }),
		WithRandInt(func(int) int { return 2345 }),
	)

	reqID, ts, token := s.Credentials(ServiceCancelOpenClaimsTxn)
	if reqID != "12345" {
		t.Errorf("requestID = %s, want 12345", reqID)
	}
	if ts != "20250601070000" {
		t.Errorf("timestamp = %s, want 20250601070000", ts)
	}
	want := refToken("HOSP01", "s3cret", ts, reqID, "CANCEL_OPEN_CLAIMS_TXN")
	if token != want {
		t.Errorf("token = %s, want %s", token, want)
	}
}

func ExampleSign() {
	token := Sign("HOSP01", "s3cret", "20250601143000", "12345", ServiceHelloWorld)
	fmt.Println(len(token))
	// Output: 64
}
