// Package blobstore provides object storage for uploaded claim documents.
// It defines the Store interface (put/get/presign), an in-memory
// implementation suitable for testing and development, and a filesystem
// implementation for single-node deployments.
package blobstore

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectTooLarge = errors.New("object exceeds maximum allowed size")
	ErrEmptyKey       = errors.New("object key is required")
	ErrExpiredURL     = errors.New("presigned url expired")
	ErrBadSignature   = errors.New("presigned url signature mismatch")
)

// MaxObjectSize bounds a single stored object (20 MB, matching the insurer's
// document upload limit).
const MaxObjectSize = 20 * 1024 * 1024

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string            `json:"key"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Hash        string            `json:"hash"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Store is the object-store contract consumed by the document upload path.
type Store interface {
	// Put stores the content under key and returns the key.
	Put(ctx context.Context, key, contentType string, metadata map[string]string, content io.Reader) (string, error)
	// Get returns the object content and its metadata.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	// Presign returns a time-limited URL for direct download of the object.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// -- Presigning --

// signer issues and verifies HMAC-signed download URLs. Both store
// implementations share it so a presigned URL survives a backend swap.
type signer struct {
	basePath string
	secret   []byte
}

func (s signer) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s signer) presign(key string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d&sig=%s", s.basePath, key, expires, s.sign(key, expires))
}

// VerifyPresigned checks the expiry and signature of a presigned download
// request. The handler serving the download calls this before streaming.
func VerifyPresigned(secret, key, expiresParam, sig string) error {
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if time.Now().Unix() > expires {
		return ErrExpiredURL
	}
	want := signer{secret: []byte(secret)}.sign(key, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

func readBounded(content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxObjectSize {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}

// -- In-memory implementation --

type storedObject struct {
	info    ObjectInfo
	content []byte
}

// MemoryStore is a thread-safe in-memory Store for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*storedObject
	signer  signer
}

// NewMemoryStore returns a ready-to-use MemoryStore. basePath is the URL
// prefix presigned links are issued under.
func NewMemoryStore(basePath, secret string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*storedObject),
		signer:  signer{basePath: basePath, secret: []byte(secret)},
	}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, metadata map[string]string, content io.Reader) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	data, err := readBounded(content)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	s.mu.Lock()
	s.objects[key] = &storedObject{
		info: ObjectInfo{
			Key:         key,
			ContentType: contentType,
			Size:        int64(len(data)),
			Hash:        hex.EncodeToString(h[:]),
			Metadata:    metadata,
			CreatedAt:   time.Now().UTC(),
		},
		content: data,
	}
	s.mu.Unlock()
	return key, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrObjectNotFound
	}
	info := obj.info
	return io.NopCloser(bytes.NewReader(obj.content)), &info, nil
}

func (s *MemoryStore) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	return s.signer.presign(key, ttl), nil
}

// -- Filesystem implementation --

// FileStore keeps objects under a root directory, one file per object plus a
// sidecar for content type. Keys may contain forward slashes; path traversal
// is rejected.
type FileStore struct {
	root   string
	signer signer
}

func NewFileStore(root, basePath, secret string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FileStore{root: root, signer: signer{basePath: basePath, secret: []byte(secret)}}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileStore) Put(_ context.Context, key, contentType string, _ map[string]string, content io.Reader) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := readBounded(content)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(p+".ctype", []byte(contentType), 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FileStore) Get(_ context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrObjectNotFound
		}
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	ctype, _ := os.ReadFile(p + ".ctype")
	info := &ObjectInfo{
		Key:         key,
		ContentType: string(ctype),
		Size:        st.Size(),
		CreatedAt:   st.ModTime().UTC(),
	}
	return f, info, nil
}

func (s *FileStore) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", err
	}
	return s.signer.presign(key, ttl), nil
}
