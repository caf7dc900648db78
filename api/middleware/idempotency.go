package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
	pkgredis "github.com/pasarlokal/pasarlokal-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// idempotencyRule matches a request path by exact value or by a
// prefix/suffix pair spanning a path parameter.
type idempotencyRule struct {
	method string
	exact  string
	prefix string
	suffix string
	ttl    time.Duration
}

func (rule idempotencyRule) matches(method, path string) bool {
	if rule.method != method {
		return false
	}
	if rule.exact != "" {
		return path == rule.exact
	}
	return strings.HasPrefix(path, rule.prefix) && strings.HasSuffix(path, rule.suffix)
}

var idempotencyRules = []idempotencyRule{
	// Mutations that are safe to retry within a day.
	{method: http.MethodPost, exact: "/api/v1/complaints", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/complaints/", suffix: "/reject", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/notifications/", suffix: "/read", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, exact: "/api/v1/notifications/read-all", ttl: defaultIdempotencyTTL},
	// Anything that moves money or order state keeps its record for a week.
	{method: http.MethodPost, exact: "/api/v1/orders", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/orders/", suffix: "/transition", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/orders/", suffix: "/assign", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/wallets/", suffix: "/withdrawals", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/withdrawals/", suffix: "/settle", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, prefix: "/api/v1/complaints/", suffix: "/resolve", ttl: criticalIdempotencyTTL},
}

func routeTTL(method, path string) (time.Duration, bool) {
	for _, rule := range idempotencyRules {
		if rule.matches(method, path) {
			return rule.ttl, true
		}
	}
	return 0, false
}

// replayRecord is the stored response for a completed idempotent request.
type replayRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency deduplicates retried mutations. Matched routes require an
// Idempotency-Key header; a completed response is stored under the key and
// replayed verbatim on retry. Reusing a key with a different body is a
// conflict.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(requestScope(r), idempotencyKey)

			record, err := lookupReplay(r.Context(), store, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if record != nil {
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replayResponse(w, record)
				return
			}

			capture := &bodyCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)
			persistRecord(r.Context(), store, logg, key, capture, requestHash, ttl)
		})
	}
}

// requestScope confines a key to one actor, market, and endpoint so the
// same client key cannot collide across tenants or routes.
func requestScope(r *http.Request) string {
	return strings.Join([]string{
		ActorIDFromContext(r.Context()),
		MarketIDFromContext(r.Context()),
		r.Method,
		r.URL.Path,
	}, "|")
}

func lookupReplay(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*replayRecord, error) {
	stored, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	if stored == "" {
		return nil, nil
	}
	var record replayRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &record, nil
}

func replayResponse(w http.ResponseWriter, record *replayRecord) {
	if ct := record.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func persistRecord(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, key string, capture *bodyCapture, requestHash string, ttl time.Duration) {
	status := capture.status
	if status == 0 {
		status = http.StatusOK
	}
	record := replayRecord{
		Status:      status,
		Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
		RequestHash: requestHash,
	}
	if ct := capture.Header().Get("Content-Type"); ct != "" {
		record.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		logStoreError(ctx, logg, "marshal idempotency record", err)
		return
	}
	if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil {
		logStoreError(ctx, logg, "persist idempotency record", err)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type bodyCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *bodyCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func logStoreError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
