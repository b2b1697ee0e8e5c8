package services

import (
	"log"
	"strconv"
	"strings"
)

// ConversationEngine maps (sender, message text) to a reply, mutating the
// sender's session along the way. All failures are contained: every path
// yields a well-formed reply, degrading to apology + main menu.
type ConversationEngine struct {
	sessions *SessionManager
	api      BackendAPI
}

// NewConversationEngine wires the engine to its session manager and the
// AgriHaul backend client.
func NewConversationEngine(sessions *SessionManager, api BackendAPI) *ConversationEngine {
	return &ConversationEngine{
		sessions: sessions,
		api:      api,
	}
}

// HandleIncomingMessage is the entry point invoked by the webhook handler
func (e *ConversationEngine) HandleIncomingMessage(from, body string) string {
	phone := strings.TrimPrefix(from, "whatsapp:")
	s := e.sessions.GetOrCreate(phone)

	text := strings.TrimSpace(body)
	lower := strings.ToLower(text)

	log.Printf("📱 [%s] flow=%s message=%q", phone, s.Flow, text)

	// Global return-to-menu, honored at every state
	if lower == "menu" || lower == "main" || lower == "restart" {
		e.sessions.ResetToMain(s)
		return MainMenu()
	}

	// First contact or greeting
	if s.Flow == FlowMain || lower == "hello" || lower == "hi" || lower == "start" {
		if n, err := strconv.Atoi(lower); err == nil {
			return e.handleMainSelection(s, n)
		}
		return MainMenu()
	}

	switch s.Flow {
	case FlowPostLoadCrop:
		return e.handlePostLoadCrop(s, text)
	case FlowPostLoadWeight:
		return e.handlePostLoadWeight(s, text)
	case FlowPostLoadPickup:
		return e.handlePostLoadPickup(s, text)
	case FlowPostLoadDrop:
		return e.handlePostLoadDrop(s, text)
	case FlowPostLoadPayment:
		return e.handlePostLoadPayment(s, text)
	case FlowPostLoadEquipment:
		return e.handlePostLoadEquipment(s, text)

	case FlowFindLoadsLocation:
		return e.handleFindLoadsLocation(s, text)
	case FlowFindLoadsSelect:
		return e.handleFindLoadsSelect(s, text)
	case FlowFindLoadsLinkCarrier:
		return e.handleFindLoadsLinkCarrier(s, text)

	case FlowTrackJobEnter:
		return e.handleTrackJob(s, text)

	case FlowRateEnterJob:
		return e.handleRateEnterJob(s, text)
	case FlowRateEnterScore:
		return e.handleRateEnterScore(s, text)
	case FlowRateEnterComment:
		return e.handleRateEnterComment(s, text)

	default:
		// Corrupted or stale flow value - never propagate to the caller
		log.Printf("⚠️  [internal] unknown flow %q for %s, resetting to main", s.Flow, phone)
		e.sessions.ResetToMain(s)
		return MainMenu()
	}
}

// handleMainSelection branches on a numeric main-menu reply
func (e *ConversationEngine) handleMainSelection(s *Session, n int) string {
	switch n {
	case 1:
		s.Flow = FlowPostLoadCrop
		return promptPostLoadCrop
	case 2:
		s.Flow = FlowFindLoadsLocation
		return promptFindLoadsLocation
	case 3:
		s.Flow = FlowTrackJobEnter
		return promptTrackJob
	case 4:
		s.Flow = FlowRateEnterJob
		return promptRateJob
	default:
		return "Invalid selection.\n\n" + MainMenu()
	}
}
