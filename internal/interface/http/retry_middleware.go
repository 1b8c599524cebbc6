package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/yanqian/watermate/internal/domain/solar"
	"github.com/yanqian/watermate/internal/infra/config"
)

const retryBodyLimit = 1 << 20 // 1 MiB

var (
	errBodyTooLarge   = errors.New("request body exceeds retry limit")
	errTransientReply = errors.New("transient upstream status")
)

// permanentCodes fail the same way on every replay.
var permanentCodes = map[string]struct{}{
	solar.CodeParse: {},
}

type attemptContextKey struct{}

// replayAttempt reports which try of a retried request ctx belongs to; 0
// when the request is not under retry.
func replayAttempt(ctx context.Context) int {
	n, _ := ctx.Value(attemptContextKey{}).(int)
	return n
}

// withRetry replays POST requests whose response carries a transient
// upstream status (502, 503, 504). Only the final attempt reaches the client.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	exclusions := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclusions[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := exclusions[r.URL.Path]; skip || r.Method != http.MethodPost {
			handler.ServeHTTP(w, r)
			return
		}
		bodyBytes, err := readRequestBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		if r.Header.Get(requestIDHeader) == "" {
			r.Header.Set(requestIDHeader, uuid.NewString())
		}

		var last *retryResponseRecorder
		attempt := 0
		operation := func() error {
			attempt++
			recorder := newRetryResponseRecorder(w)
			reqCopy := r.Clone(context.WithValue(r.Context(), attemptContextKey{}, attempt))
			reqCopy.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			reqCopy.ContentLength = int64(len(bodyBytes))

			handler.ServeHTTP(recorder, reqCopy)
			last = recorder
			if recorder.retryable() {
				return errTransientReply
			}
			return nil
		}
		notify := func(_ error, wait time.Duration) {
			logger.Warn("transient failure, retrying request",
				"path", r.URL.Path,
				"status", last.statusCode,
				"attempt", attempt,
				"wait_ms", wait.Milliseconds(),
			)
		}

		_ = backoff.RetryNotify(operation, retryPolicy(cfg, r), notify)
		if last != nil {
			last.Commit()
		}
	})
}

func retryPolicy(cfg config.RetryConfig, r *http.Request) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.BaseBackoff
	if cfg.MaxBackoff > 0 {
		exp.MaxInterval = cfg.MaxBackoff
	}
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), r.Context())
}

func readRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	reader := io.LimitReader(r.Body, retryBodyLimit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// retryResponseRecorder buffers one attempt so a failed try never leaks to the client.
type retryResponseRecorder struct {
	dst        http.ResponseWriter
	header     http.Header
	body       bytes.Buffer
	statusCode int
	wroteHead  bool
}

func newRetryResponseRecorder(dst http.ResponseWriter) *retryResponseRecorder {
	return &retryResponseRecorder{
		dst:        dst,
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (r *retryResponseRecorder) Header() http.Header {
	return r.header
}

func (r *retryResponseRecorder) WriteHeader(status int) {
	if r.wroteHead {
		return
	}
	r.statusCode = status
	r.wroteHead = true
}

func (r *retryResponseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHead {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// Commit copies the buffered attempt onto the real writer.
func (r *retryResponseRecorder) Commit() {
	dstHeader := r.dst.Header()
	for k := range dstHeader {
		dstHeader.Del(k)
	}
	for k, values := range r.header {
		dstHeader[k] = append([]string(nil), values...)
	}
	r.dst.WriteHeader(r.statusCode)
	if r.body.Len() > 0 {
		_, _ = r.dst.Write(r.body.Bytes())
	}
}

func (r *retryResponseRecorder) retryable() bool {
	switch r.statusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
	default:
		return false
	}
	_, permanent := permanentCodes[r.header.Get(errorCodeHeader)]
	return !permanent
}

func (r *retryResponseRecorder) Flush() {}
