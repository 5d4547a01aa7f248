package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore("/api/v1/insurance/documents/blob", "secret")
	ctx := context.Background()

	key, err := s.Put(ctx, "MR100/referral.pdf", "application/pdf",
		map[string]string{"no_registrasi": "TEMP-ELIG-001"}, bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if key != "MR100/referral.pdf" {
		t.Errorf("key = %s", key)
	}

	rc, info, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4" {
		t.Errorf("content = %q", data)
	}
	if info.ContentType != "application/pdf" || info.Size != 8 {
		t.Errorf("info = %+v", info)
	}
	if info.Metadata["no_registrasi"] != "TEMP-ELIG-001" {
		t.Errorf("metadata = %v", info.Metadata)
	}
	if info.Hash == "" {
		t.Error("hash must be recorded")
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore("/blob", "secret")
	_, _, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestMemoryStore_EmptyKeyRejected(t *testing.T) {
	s := NewMemoryStore("/blob", "secret")
	_, err := s.Put(context.Background(), "", "text/plain", nil, strings.NewReader("x"))
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("err = %v, want ErrEmptyKey", err)
	}
}

func TestMemoryStore_Presign(t *testing.T) {
	s := NewMemoryStore("/api/v1/insurance/documents/blob", "secret")
	ctx := context.Background()
	if _, err := s.Put(ctx, "k1", "text/plain", nil, strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	link, err := s.Presign(ctx, "k1", time.Minute)
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse presigned url: %v", err)
	}
	if !strings.HasPrefix(u.Path, "/api/v1/insurance/documents/blob/") {
		t.Errorf("path = %s", u.Path)
	}

	q := u.Query()
	if err := VerifyPresigned("secret", "k1", q.Get("expires"), q.Get("sig")); err != nil {
		t.Errorf("VerifyPresigned: %v", err)
	}
	if err := VerifyPresigned("other-secret", "k1", q.Get("expires"), q.Get("sig")); !errors.Is(err, ErrBadSignature) {
		t.Errorf("wrong secret: err = %v, want ErrBadSignature", err)
	}
	if err := VerifyPresigned("secret", "k2", q.Get("expires"), q.Get("sig")); !errors.Is(err, ErrBadSignature) {
		t.Errorf("wrong key: err = %v, want ErrBadSignature", err)
	}
}

func TestVerifyPresigned_Expired(t *testing.T) {
	expired := time.Now().Add(-time.Minute).Unix()
	sig := signer{secret: []byte("secret")}.sign("k1", expired)

	err := VerifyPresigned("secret", "k1", "garbage", sig)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("garbage expiry: err = %v", err)
	}

	err = VerifyPresigned("secret", "k1", "1", sig)
	if !errors.Is(err, ErrExpiredURL) {
		t.Errorf("expired: err = %v, want ErrExpiredURL", err)
	}
}

func TestMemoryStore_PresignMissingObject(t *testing.T) {
	s := NewMemoryStore("/blob", "secret")
	_, err := s.Presign(context.Background(), "nope", time.Minute)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestMemoryStore_TooLarge(t *testing.T) {
	s := NewMemoryStore("/blob", "secret")
	big := bytes.NewReader(make([]byte, MaxObjectSize+1))
	_, err := s.Put(context.Background(), "big", "application/octet-stream", nil, big)
	if !errors.Is(err, ErrObjectTooLarge) {
		t.Errorf("err = %v, want ErrObjectTooLarge", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "/blob", "secret")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Put(ctx, "MR100/resume.pdf", "application/pdf", nil, strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, info, err := s.Get(ctx, "MR100/resume.pdf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4" || info.ContentType != "application/pdf" {
		t.Errorf("content=%q info=%+v", data, info)
	}

	if _, err := s.Presign(ctx, "MR100/resume.pdf", time.Minute); err != nil {
		t.Errorf("Presign: %v", err)
	}
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "/blob", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(context.Background(), "../escape", "text/plain", nil, strings.NewReader("x")); err == nil {
		t.Error("expected error for path traversal key")
	}
}
