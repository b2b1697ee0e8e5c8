package services

import (
	"log"
	"strconv"
	"strings"
)

func (e *ConversationEngine) handleRateEnterJob(s *Session, input string) string {
	jobID := strings.TrimSpace(input)
	if jobID == "" {
		return repromptJobID
	}
	s.Rate.JobID = jobID
	s.Flow = FlowRateEnterScore
	return "Enter an overall rating from 1 to 5."
}

func (e *ConversationEngine) handleRateEnterScore(s *Session, input string) string {
	score, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || score < 1 || score > 5 {
		return repromptScore
	}
	s.Rate.Score = score
	s.Flow = FlowRateEnterComment
	return "Enter an optional short comment. Or type 'skip' to submit without a comment."
}

func (e *ConversationEngine) handleRateEnterComment(s *Session, input string) string {
	comment := strings.TrimSpace(input)
	if strings.ToLower(comment) == "skip" {
		comment = ""
	}
	s.Rate.Comment = comment

	// The rating needs the ratee (farmer) id, which only the job record has
	job, err := e.api.GetJob(s.Rate.JobID)
	if err != nil {
		log.Printf("❌ [upstream] rating lookup for job %s failed for %s: %v", s.Rate.JobID, s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyRating)
	}

	rateeID := job.RateeID()
	if rateeID == "" {
		log.Printf("❌ [upstream] no ratee id on job %s", s.Rate.JobID)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyRating)
	}

	// 1-5 answer doubled onto the API's 0-10 scale, same value for all
	// six categories
	val := s.Rate.Score * 2
	if val > 10 {
		val = 10
	}
	if val < 0 {
		val = 0
	}

	err = e.api.SubmitRating(&RatingRequest{
		JobID:         s.Rate.JobID,
		RateeID:       rateeID,
		OnTime:        val,
		Communication: val,
		Accuracy:      val,
		Compliance:    val,
		Condition:     val,
		Resolution:    val,
		Comment:       comment,
	})
	if err != nil {
		log.Printf("❌ [upstream] rating submit for job %s failed for %s: %v", s.Rate.JobID, s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyRating)
	}

	e.sessions.ResetToMain(s)
	return backToMenu("Thank you. Your rating has been submitted.")
}
