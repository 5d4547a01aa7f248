package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every gateway call. On expiry the call is reported
// as a TransportError and no persistence happens upstream.
const DefaultTimeout = 30 * time.Second

// RequestInfo echoes the per-request credentials so callers can archive them
// next to the exchanged payloads.
type RequestInfo struct {
	RequestID string `json:"requestID"`
	Timestamp string `json:"timestamp"`
	TokenAuth string `json:"tokenAuth"`
}

// Response is a decoded gateway reply. Raw preserves the exact bytes for the
// response archive.
type Response struct {
	Output      Output
	Raw         json.RawMessage
	RequestInfo RequestInfo
}

// Client performs single-attempt calls against the insurer gateway. It never
// retries (insurer operations are not idempotent at the protocol level) and
// never touches persistence.
type Client struct {
	baseURL    string
	uploadURL  string
	terminalID string
	signer     *Signer
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithUploadURL sets a separate endpoint for EDOCS_UPLOAD; some deployments
// route document uploads through a different host than JSON transactions.
func WithUploadURL(u string) ClientOption {
	return func(c *Client) { c.uploadURL = u }
}

func NewClient(baseURL, terminalID string, signer *Signer, logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		uploadURL:  baseURL,
		terminalID: terminalID,
		signer:     signer,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TerminalID returns the provider terminal identifier sent in request bodies.
func (c *Client) TerminalID() string { return c.terminalID }

// Signer returns the client's signer.
func (c *Client) Signer() *Signer { return c.signer }

// Call signs and POSTs one request envelope for the given service and
// returns the decoded response. Errors are classified:
//
//   - *RequestError: the request could not be built or sent
//   - *TransportError: no response (network error, timeout)
//   - *ProtocolError: non-2xx HTTP status, an undecodable body, or an
//     embedded failure statusCode — in the last case the returned Response
//     is still populated so callers can inspect the insurer's payload.
func (c *Client) Call(ctx context.Context, serviceID ServiceID, txnData any) (*Response, error) {
	requestID, timestamp, token := c.signer.Credentials(serviceID)
	envelope := RequestEnvelope{Input: Input{
		TokenAuth:          token,
		ServiceID:          serviceID,
		CustomerID:         c.signer.CustomerID(),
		RequestID:          requestID,
		TxnData:            txnData,
		TxnRequestDateTime: timestamp,
	}}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("marshal envelope: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("service_id", string(serviceID)).
		Str("request_id", requestID).
		Str("timestamp", timestamp).
		Msg("gateway request")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	resp := &Response{
		Raw:         raw,
		RequestInfo: RequestInfo{RequestID: requestID, Timestamp: timestamp, TokenAuth: token},
	}

	var envOut ResponseEnvelope
	decodeErr := json.Unmarshal(raw, &envOut)
	if decodeErr == nil {
		resp.Output = envOut.Output
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, &ProtocolError{
			HTTPStatus: httpResp.StatusCode,
			StatusCode: resp.Output.StatusCode,
			StatusMsg:  nonEmpty(resp.Output.StatusMsg, httpResp.Status),
		}
	}
	if decodeErr != nil {
		return resp, &ProtocolError{
			HTTPStatus: httpResp.StatusCode,
			StatusMsg:  fmt.Sprintf("undecodable gateway response: %v", decodeErr),
		}
	}

	c.logger.Debug().
		Str("service_id", string(serviceID)).
		Str("status_code", string(resp.Output.StatusCode)).
		Str("reference_id", resp.Output.ReferenceID).
		Msg("gateway response")

	if resp.Output.StatusCode != "" && !resp.Output.StatusCode.OK() {
		return resp, &ProtocolError{
			HTTPStatus: httpResp.StatusCode,
			StatusCode: resp.Output.StatusCode,
			StatusMsg:  resp.Output.StatusMsg,
		}
	}

	return resp, nil
}

// Upload sends an EDOCS_UPLOAD request as multipart/form-data: a "data"
// field holding the complete JSON input object and a "files" field holding
// the document bytes.
func (c *Client) Upload(ctx context.Context, in EdocsUploadInput, filename, contentType string, file []byte) (*Response, error) {
	requestID, timestamp, token := c.signer.Credentials(ServiceEdocsUpload)
	input := Input{
		TokenAuth:          token,
		ServiceID:          ServiceEdocsUpload,
		CustomerID:         c.signer.CustomerID(),
		RequestID:          requestID,
		TxnData:            NewEdocsUploadRequest(in),
		TxnRequestDateTime: timestamp,
	}

	dataPayload, err := json.Marshal(input)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("marshal upload input: %w", err)}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("data", string(dataPayload)); err != nil {
		return nil, &RequestError{Err: err}
	}
	part, err := mw.CreateFormFile("files", filename)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	if _, err := part.Write(file); err != nil {
		return nil, &RequestError{Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug().
		Str("service_id", string(ServiceEdocsUpload)).
		Str("request_id", requestID).
		Str("file_name", filename).
		Msg("gateway upload")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	resp := &Response{
		Raw:         raw,
		RequestInfo: RequestInfo{RequestID: requestID, Timestamp: timestamp, TokenAuth: token},
	}

	var envOut ResponseEnvelope
	decodeErr := json.Unmarshal(raw, &envOut)
	if decodeErr == nil {
		resp.Output = envOut.Output
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, &ProtocolError{
			HTTPStatus: httpResp.StatusCode,
			StatusCode: resp.Output.StatusCode,
			StatusMsg:  nonEmpty(resp.Output.StatusMsg, httpResp.Status),
		}
	}
	if resp.Output.StatusCode != "" && !resp.Output.StatusCode.OK() {
		return resp, &ProtocolError{
			HTTPStatus: httpResp.StatusCode,
			StatusCode: resp.Output.StatusCode,
			StatusMsg:  resp.Output.StatusMsg,
		}
	}

	return resp, nil
}

func nonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
