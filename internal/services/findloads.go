package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

const openJobsFetchLimit = 25

func (e *ConversationEngine) handleFindLoadsLocation(s *Session, input string) string {
	location := cleanLocation(input)
	if location == "" {
		return repromptLocation
	}

	// The API has no location filter; fetch open jobs and substring-match
	// the pickup address client-side.
	jobs, err := e.api.ListOpenJobs(openJobsFetchLimit)
	if err != nil {
		log.Printf("❌ [upstream] find loads failed for %s: %v", s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyFindLoads)
	}

	city := strings.ToLower(location)
	var listings []LoadListing
	for _, job := range jobs {
		if !strings.Contains(strings.ToLower(job.PickupAddress), city) {
			continue
		}
		listings = append(listings, makeListing(job))
		if len(listings) == 3 {
			break
		}
	}

	if len(listings) == 0 {
		e.sessions.ResetToMain(s)
		return backToMenu(fmt.Sprintf("No loads found near %s.", location))
	}

	s.FindLoads.Location = location
	s.FindLoads.LastShown = listings
	s.Flow = FlowFindLoadsSelect

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("AVAILABLE LOADS NEAR %s\n", strings.ToUpper(location)))
	for i, it := range listings {
		sb.WriteString(fmt.Sprintf("%d - %s, %s, %s, %s, Farmer Rating: %s\n",
			i+1, it.Crop, it.WeightDisplay, it.Route, it.PriceDisplay, it.RatingDisplay))
	}
	sb.WriteString(fmt.Sprintf("Reply with the load number (1-%d) to apply", len(listings)))
	return sb.String()
}

// makeListing formats one open job for the numbered result list
func makeListing(job Job) LoadListing {
	crop := job.Crop
	if crop == "" {
		crop = "Unknown"
	}

	weight := "N/A"
	if job.LoadSize != nil {
		weight = strconv.FormatFloat(*job.LoadSize, 'f', -1, 64) + " tons"
	}

	price := "N/A"
	if job.PayoutDollars != nil {
		price = fmt.Sprintf("$%.0f", *job.PayoutDollars)
	}

	rating := "N/A"
	if job.Farmer != nil && job.Farmer.RatingOverall != nil {
		rating = fmt.Sprintf("%.1f/10", *job.Farmer.RatingOverall)
	}

	pickup := job.PickupAddress
	if pickup == "" {
		pickup = "N/A"
	}
	drop := job.DropoffAddress
	if drop == "" {
		drop = "N/A"
	}

	jobID := job.ID
	if jobID == "" {
		jobID = "JOB_UNKNOWN"
	}

	return LoadListing{
		JobID:         jobID,
		Crop:          crop,
		WeightDisplay: weight,
		Route:         fmt.Sprintf("%s to %s", pickup, drop),
		PriceDisplay:  price,
		RatingDisplay: rating,
	}
}

func (e *ConversationEngine) handleFindLoadsSelect(s *Session, input string) string {
	items := s.FindLoads.LastShown
	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || idx < 1 || idx > len(items) {
		return fmt.Sprintf("Invalid selection. Reply with a number between 1 and %d.", len(items))
	}

	chosen := items[idx-1]
	s.FindLoads.SelectedJobID = chosen.JobID

	// Accepting requires a linked carrier account; prompt once per phone
	if s.FindLoads.LinkedCarrierID == "" {
		s.Flow = FlowFindLoadsLinkCarrier
		return promptLinkCarrier
	}

	return e.acceptSelectedJob(s, chosen.JobID)
}

func (e *ConversationEngine) handleFindLoadsLinkCarrier(s *Session, input string) string {
	carrierID := strings.TrimSpace(input)
	// Minimal validation: UUID-like length check
	if len(carrierID) < 8 {
		return repromptCarrierID
	}
	e.sessions.LinkCarrier(s, carrierID)

	jobID := s.FindLoads.SelectedJobID
	if jobID == "" {
		e.sessions.ResetToMain(s)
		return backToMenu("Link successful. Returning to the Main Menu.")
	}

	return e.acceptSelectedJob(s, jobID)
}

func (e *ConversationEngine) acceptSelectedJob(s *Session, jobID string) string {
	if err := e.api.AcceptJob(jobID, s.FindLoads.LinkedCarrierID); err != nil {
		log.Printf("❌ [upstream] accept job %s failed for %s: %v", jobID, s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyAccept)
	}

	// The chosen item's details are still in the last shown list
	var chosen *LoadListing
	for i := range s.FindLoads.LastShown {
		if s.FindLoads.LastShown[i].JobID == jobID {
			chosen = &s.FindLoads.LastShown[i]
			break
		}
	}

	summary := "APPLICATION SUBMITTED\n" +
		"LOAD DETAILS:\n" +
		fmt.Sprintf("JOB ID: %s\n", jobID)
	if chosen != nil {
		summary += fmt.Sprintf("CROP: %s\nWEIGHT: %s\nROUTE: %s\nPAYMENT: %s\nFARMER RATING: %s\n",
			chosen.Crop, chosen.WeightDisplay, chosen.Route, chosen.PriceDisplay, chosen.RatingDisplay)
	}
	summary += "The farmer has been notified of your application. You will be contacted if selected."

	e.sessions.ResetToMain(s)
	return backToMenu(summary)
}
