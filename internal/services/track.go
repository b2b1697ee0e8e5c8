package services

import (
	"fmt"
	"log"
	"strings"
	"time"
)

func (e *ConversationEngine) handleTrackJob(s *Session, input string) string {
	jobID := strings.TrimSpace(input)
	if jobID == "" {
		return repromptJobID
	}
	s.Track.JobID = jobID

	job, err := e.api.GetJob(jobID)
	if err != nil {
		log.Printf("❌ [upstream] track job %s failed for %s: %v", jobID, s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyTrack)
	}

	status := strings.ToUpper(job.Status)
	if status == "" {
		status = "UNKNOWN"
	}
	pickup := job.PickupAddress
	if pickup == "" {
		pickup = "N/A"
	}
	drop := job.DropoffAddress
	if drop == "" {
		drop = "N/A"
	}

	e.sessions.ResetToMain(s)
	return backToMenu(fmt.Sprintf("SHIPMENT STATUS\nJOB ID: %s\nSTATUS: %s\nROUTE: %s to %s\nETA: %s",
		jobID, status, pickup, drop, formatETA(job.ETA)))
}

// formatETA renders the API's eta timestamp in a readable local form
func formatETA(eta string) string {
	if eta == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, eta)
	if err != nil {
		// Show whatever the API sent rather than hiding it
		return eta
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
