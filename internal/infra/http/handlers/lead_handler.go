package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fieldline/lead-relay/internal/entity"
)

type IntakeLeadInterface interface {
	Execute(ctx context.Context, payload map[string]any) (*entity.Lead, error)
}

type LeadHandler struct {
	intake      IntakeLeadInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(intake IntakeLeadInterface) *LeadHandler {
	return &LeadHandler{
		intake:      intake,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min per IP
	}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	// Intake payloads are loosely typed: field names vary by campaign
	// and form tool, so the whole body is decoded as a map and probed.
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	lead, err := h.intake.Execute(ctx, payload)
	if err != nil {
		log.Printf("❌ Lead intake failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  lead.ID,
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
