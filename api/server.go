package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/openpay/hmac-tools/db"
	"github.com/openpay/hmac-tools/entry"
	"github.com/openpay/hmac-tools/hmac"
	"github.com/openpay/hmac-tools/payment"
	"github.com/openpay/hmac-tools/rmq"
)

// MaxBodySize caps the size of request bodies accepted by /pay and /collect
const MaxBodySize = 1 << 20

type Server struct {
	http.Handler
	verifier  hmac.Verifier
	keys      KeyStore
	publisher Publisher

	lastTransactionID atomic.Int64
	now               func() time.Time
}

// NewServer builds the handler for /pay, /collect, /transaction/{id}/status and
// /health. Every route except /health is rate-limited per X-Client-Id, allowing
// requestsPerMinute requests per client.
func NewServer(verifier hmac.Verifier, keys KeyStore, publisher Publisher, requestsPerMinute int) *Server {
	s := &Server{
		verifier:  verifier,
		keys:      keys,
		publisher: publisher,
		now:       time.Now,
	}
	limiter := NewRateLimiter(requestsPerMinute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /pay", limiter.Middleware(s.handleTransaction(rmq.TransactionTypePay)))
	mux.Handle("POST /collect", limiter.Middleware(s.handleTransaction(rmq.TransactionTypeCollect)))
	mux.Handle("GET /transaction/{id}/status", limiter.Middleware(http.HandlerFunc(s.handleStatus)))
	s.Handler = mux
	return s
}

// SeedTransactionIDs continues numbering after the highest transaction ID already
// recorded in the key store, so that IDs stay unique across restarts
func (s *Server) SeedTransactionIDs(ctx context.Context) error {
	last, err := s.keys.LastTransactionID(ctx)
	if err != nil {
		return err
	}
	s.lastTransactionID.Store(last)
	return nil
}

func (s *Server) handleHealth(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, map[string]string{"status": "UP"})
}

// transactionStatus is the body returned by GET /transaction/{id}/status
type transactionStatus struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handleStatus(res http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(res, http.StatusBadRequest, payment.NewErrorResponse("Invalid transaction ID"))
		return
	}

	status, err := s.keys.TransactionStatus(req.Context(), id)
	if errors.Is(err, db.ErrTransactionNotFound) {
		writeJSON(res, http.StatusNotFound, payment.NewErrorResponse(fmt.Sprintf("Transaction %d not found", id)))
		return
	}
	if err != nil {
		entry.Log(req).Error("Failed to look up transaction status", "transactionId", id, "error", err)
		writeJSON(res, http.StatusInternalServerError, payment.NewErrorResponse("Internal error"))
		return
	}
	writeJSON(res, http.StatusOK, transactionStatus{ID: id, Status: status})
}

func (s *Server) handleTransaction(txType rmq.TransactionType) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		logger := entry.Log(req)

		idempotencyKey := req.Header.Get(hmac.HeaderIdempotencyKey)
		if idempotencyKey == "" {
			writeJSON(res, http.StatusBadRequest, payment.NewErrorResponse("Missing Idempotency-Key header"))
			return
		}
		logger = logger.With("idempotencyKey", idempotencyKey)

		body, err := io.ReadAll(http.MaxBytesReader(res, req.Body, MaxBodySize))
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeJSON(res, http.StatusRequestEntityTooLarge, payment.NewErrorResponse("Request body too large"))
				return
			}
			logger.Warn("Failed to read request body", "error", err)
			writeJSON(res, http.StatusBadRequest, payment.NewErrorResponse("Failed to read request body"))
			return
		}

		// The tag is checked against the raw bytes received, before the body is
		// parsed: any re-serialization could change the signed message
		if err := s.verifier.Verify(req, body); err != nil {
			if errors.Is(err, hmac.ErrMissingSignature) {
				logger.Warn("Request missing HMAC header")
				writeJSON(res, http.StatusUnauthorized, payment.NewErrorResponse("Missing HMAC header"))
				return
			}
			logger.Warn("Request failed HMAC validation", "error", err)
			writeJSON(res, http.StatusForbidden, payment.NewErrorResponse("Invalid HMAC signature"))
			return
		}

		paymentReq, err := payment.Parse(body)
		if err == nil {
			err = paymentReq.Validate()
		}
		if err != nil {
			writeJSON(res, http.StatusBadRequest, payment.NewErrorResponse(err.Error()))
			return
		}

		duplicate, err := s.keys.IsDuplicate(req.Context(), idempotencyKey)
		if err != nil {
			logger.Error("Failed to check idempotency key", "error", err)
			writeJSON(res, http.StatusInternalServerError, payment.NewErrorResponse("Internal error"))
			return
		}
		if duplicate {
			writeJSON(res, http.StatusConflict, payment.NewErrorResponse("Duplicate request"))
			return
		}

		status, message := payment.StatusQueued, "Transaction queued"
		if txType == rmq.TransactionTypeCollect {
			status, message = payment.StatusRequested, "Collect request queued"
		}

		transactionID := s.lastTransactionID.Add(1)
		if err := s.keys.SaveKey(req.Context(), idempotencyKey, transactionID, status); err != nil {
			if errors.Is(err, db.ErrDuplicateKey) {
				writeJSON(res, http.StatusConflict, payment.NewErrorResponse("Duplicate request"))
				return
			}
			logger.Error("Failed to save idempotency key", "error", err)
			writeJSON(res, http.StatusInternalServerError, payment.NewErrorResponse("Internal error"))
			return
		}

		ev := rmq.TransactionEvent{
			TransactionID:  transactionID,
			Type:           txType,
			IdempotencyKey: idempotencyKey,
			Request:        *paymentReq,
			AcceptedAt:     s.now().UTC(),
		}
		if err := s.publisher.Publish(req.Context(), ev); err != nil {
			logger.Error("Failed to publish transaction", "transactionId", transactionID, "error", err)

			// Nothing was queued, so release the key: the client must be able to
			// retry with it
			if err := s.keys.DeleteKey(context.WithoutCancel(req.Context()), idempotencyKey); err != nil {
				logger.Error("Failed to release idempotency key", "transactionId", transactionID, "error", err)
			}
			writeJSON(res, http.StatusServiceUnavailable, payment.NewErrorResponse("Transaction could not be queued"))
			return
		}

		writeJSON(res, http.StatusOK, payment.StatusResponse{
			TransactionID: &transactionID,
			Status:        status,
			Message:       message,
		})
	}
}

func writeJSON(res http.ResponseWriter, status int, v interface{}) {
	res.Header().Set("content-type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(v)
}
