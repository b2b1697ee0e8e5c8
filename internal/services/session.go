package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrihaul/agrihaul-backend/internal/storage"
)

// Flow identifies the current step of a sender's dialogue
type Flow string

const (
	FlowMain Flow = "main"

	FlowPostLoadCrop      Flow = "post_load_crop"
	FlowPostLoadWeight    Flow = "post_load_weight"
	FlowPostLoadPickup    Flow = "post_load_pickup"
	FlowPostLoadDrop      Flow = "post_load_drop"
	FlowPostLoadPayment   Flow = "post_load_payment"
	FlowPostLoadEquipment Flow = "post_load_equipment"

	FlowFindLoadsLocation    Flow = "find_loads_location"
	FlowFindLoadsSelect      Flow = "find_loads_select"
	FlowFindLoadsLinkCarrier Flow = "find_loads_link_carrier"

	FlowTrackJobEnter Flow = "track_job_enter"

	FlowRateEnterJob     Flow = "rate_enter_job"
	FlowRateEnterScore   Flow = "rate_enter_score"
	FlowRateEnterComment Flow = "rate_enter_comment"
)

// PostLoadData accumulates the "post a load" form, one field per turn
type PostLoadData struct {
	Crop             string `json:"crop"`
	WeightLbs        int    `json:"weight_lbs"`
	WeightDisplay    string `json:"weight_display"`
	Pickup           string `json:"pickup"`
	Drop             string `json:"drop"`
	PaymentDollars   int    `json:"payment_dollars"`
	PaymentDisplay   string `json:"payment_display"`
	EquipmentDisplay string `json:"equipment_display"`
	JobID            string `json:"job_id"`
}

// LoadListing is one line of the "find loads" result list shown to a carrier
type LoadListing struct {
	JobID         string `json:"job_id"`
	Crop          string `json:"crop"`
	WeightDisplay string `json:"weight_display"`
	Route         string `json:"route"`
	PriceDisplay  string `json:"price_display"`
	RatingDisplay string `json:"rating_display"`
}

// FindLoadsData accumulates the "find loads" flow. LinkedCarrierID is an
// account link, not flow state - it survives resets.
type FindLoadsData struct {
	Location        string        `json:"location"`
	LastShown       []LoadListing `json:"last_shown"`
	SelectedJobID   string        `json:"selected_job_id"`
	LinkedCarrierID string        `json:"linked_carrier_id"`
}

// TrackData accumulates the tracking flow
type TrackData struct {
	JobID string `json:"job_id"`
}

// RateData accumulates the rating flow
type RateData struct {
	JobID   string `json:"job_id"`
	Score   int    `json:"score"` // 1-5
	Comment string `json:"comment"`
}

// Session holds one sender's dialogue state
type Session struct {
	SessionID  string        `json:"session_id"`
	Phone      string        `json:"phone"`
	Flow       Flow          `json:"flow"`
	CreatedAt  time.Time     `json:"created_at"`
	LastActive time.Time     `json:"last_active"`
	PostLoad   PostLoadData  `json:"post_load"`
	FindLoads  FindLoadsData `json:"find_loads"`
	Track      TrackData     `json:"track"`
	Rate       RateData      `json:"rate"`
}

// SessionManager owns the per-phone session map. Expiry is checked lazily on
// every access and on health checks - there is no background sweeper.
type SessionManager struct {
	store      storage.Store
	sessions   map[string]*Session
	mu         sync.RWMutex
	sessionTTL time.Duration
}

// NewSessionManager creates a session manager backed by the given store for
// carrier-link persistence. The store may be nil in tests.
func NewSessionManager(store storage.Store) *SessionManager {
	return &SessionManager{
		store:      store,
		sessions:   make(map[string]*Session),
		sessionTTL: 30 * time.Minute, // 30 minute session timeout
	}
}

// GetOrCreate returns the session for a phone number, creating it on first
// contact. Expired sessions are purged first, so a stale session is never
// returned. A fresh session rehydrates the carrier link from the store.
func (sm *SessionManager) GetOrCreate(phone string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.purgeExpiredLocked()

	now := time.Now()
	if session, exists := sm.sessions[phone]; exists {
		session.LastActive = now
		return session
	}

	session := &Session{
		SessionID:  "SES" + uuid.NewString(),
		Phone:      phone,
		Flow:       FlowMain,
		CreatedAt:  now,
		LastActive: now,
	}

	if sm.store != nil {
		if link, err := sm.store.GetCarrierLink(phone); err == nil {
			session.FindLoads.LinkedCarrierID = link.CarrierID
		}
	}

	sm.sessions[phone] = session
	log.Printf("Session created for %s", phone)
	return session
}

// ResetToMain clears all per-flow accumulators and returns the session to the
// main menu. The linked carrier id is the only field that survives.
func (sm *SessionManager) ResetToMain(s *Session) {
	linked := s.FindLoads.LinkedCarrierID
	s.Flow = FlowMain
	s.PostLoad = PostLoadData{}
	s.FindLoads = FindLoadsData{LinkedCarrierID: linked}
	s.Track = TrackData{}
	s.Rate = RateData{}
}

// LinkCarrier records the one-time carrier account link, both on the session
// and durably through the store.
func (sm *SessionManager) LinkCarrier(s *Session, carrierID string) {
	s.FindLoads.LinkedCarrierID = carrierID

	if sm.store == nil {
		return
	}
	if _, err := sm.store.SaveCarrierLink(s.Phone, carrierID); err != nil {
		// The in-session link still works for this conversation
		log.Printf("⚠️  Failed to persist carrier link for %s: %v", s.Phone, err)
	}
}

// CleanupExpired removes idle sessions and reports how many were purged.
// Called opportunistically from health endpoints.
func (sm *SessionManager) CleanupExpired() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.purgeExpiredLocked()
}

func (sm *SessionManager) purgeExpiredLocked() int {
	now := time.Now()
	purged := 0
	for phone, session := range sm.sessions {
		if now.Sub(session.LastActive) > sm.sessionTTL {
			delete(sm.sessions, phone)
			purged++
		}
	}
	if purged > 0 {
		log.Printf("Cleaned up %d expired session(s)", purged)
	}
	return purged
}

// ActiveCount returns the number of live sessions (for monitoring)
func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, session := range sm.sessions {
		if now.Sub(session.LastActive) <= sm.sessionTTL {
			count++
		}
	}
	return count
}
