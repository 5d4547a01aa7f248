// Package gateway implements the Admedika insurer gateway protocol: request
// signing, the JSON request/response envelope, and a single-attempt HTTP
// client with transport/protocol error classification.
package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"
)

// wib is the gateway's civil time zone (UTC+7). txnRequestDateTime and the
// signed timestamp must both be rendered in this zone regardless of where
// the bridge runs.
var wib = time.FixedZone("WIB", 7*60*60)

// TimestampLayout is the gateway's datetime wire format.
const TimestampLayout = "20060102150405"

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Sign computes the gateway authentication token:
//
//	SHA256(customerID ":" SHA256(securityWord) ":" timestamp ":" requestID ":" serviceID)
//
// hex-lowercase. Field order and the colon separators are part of the wire
// contract; the insurer recomputes the same digest to validate the request.
func Sign(customerID, securityWord, timestamp, requestID string, serviceID ServiceID) string {
	raw := fmt.Sprintf("%s:%s:%s:%s:%s", customerID, sha256Hex(securityWord), timestamp, requestID, serviceID)
	return sha256Hex(raw)
}

// Signer produces per-request credentials (requestID, timestamp, tokenAuth)
// for a fixed customer. The clock and random source are injectable for tests.
type Signer struct {
	customerID   string
	securityWord string
	now          func() time.Time
	intn         func(n int) int
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// WithRandInt overrides the random source used for request IDs.
func WithRandInt(intn func(n int) int) SignerOption {
	return func(s *Signer) { s.intn = intn }
}

func NewSigner(customerID, securityWord string, opts ...SignerOption) *Signer {
	s := &Signer{
		customerID:   customerID,
		securityWord: securityWord,
		now:          time.Now,
		intn:         rand.Intn,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Signer) CustomerID() string { return s.customerID }

// RequestID returns a random 5-digit decimal string. IDs are not globally
// unique; collisions are bounded by the timestamp component of the token.
func (s *Signer) RequestID() string {
	return fmt.Sprintf("%05d", 10000+s.intn(90000))
}

// Timestamp returns the current time as YYYYMMDDHHmmss in UTC+7.
func (s *Signer) Timestamp() string {
	return s.now().In(wib).Format(TimestampLayout)
}

// Credentials returns a fresh (requestID, timestamp, tokenAuth) triple for
// the given service.
func (s *Signer) Credentials(serviceID ServiceID) (requestID, timestamp, token string) {
	requestID = s.RequestID()
	timestamp = s.Timestamp()
	token = Sign(s.customerID, s.securityWord, timestamp, requestID, serviceID)
	return requestID, timestamp, token
}
