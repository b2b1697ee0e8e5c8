package services

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
)

// Equipment choices offered in step 6, keyed by menu digit
var equipmentDisplayByChoice = map[int]string{
	1: "Dry Van",
	2: "Refrigerated Truck",
	3: "Flatbed",
	4: "Grain Hopper",
}

// equipmentSlug maps a display name to the slug POST /jobs expects
var equipmentSlug = map[string]string{
	"Dry Van":            "dry van",
	"Refrigerated Truck": "refrigerated",
	"Flatbed":            "flatbed",
	"Grain Hopper":       "grain hopper",
}

func (e *ConversationEngine) handlePostLoadCrop(s *Session, input string) string {
	crop := cleanCrop(input)
	if crop == "" {
		return repromptCrop
	}
	s.PostLoad.Crop = capitalize(crop)
	s.Flow = FlowPostLoadWeight
	return fmt.Sprintf("CROP TYPE: %s\nSTEP 2 OF 6 - WEIGHT\nHow much weight needs to be shipped?\nExamples: 40000 lbs, 25 tons, 18000 pounds",
		strings.ToUpper(s.PostLoad.Crop))
}

func (e *ConversationEngine) handlePostLoadWeight(s *Session, input string) string {
	lbs, ok := parseWeight(input)
	if !ok {
		return repromptWeight
	}
	s.PostLoad.WeightLbs = lbs
	s.PostLoad.WeightDisplay = fmt.Sprintf("%d lbs", lbs)
	s.Flow = FlowPostLoadPickup
	return fmt.Sprintf("WEIGHT: %s\nSTEP 3 OF 6 - PICKUP LOCATION\nWhere should the carrier pick up the load?\nExamples: 123 Farm Road, Fresno CA or just Fresno, CA",
		s.PostLoad.WeightDisplay)
}

func (e *ConversationEngine) handlePostLoadPickup(s *Session, input string) string {
	loc := cleanLocation(input)
	if loc == "" {
		return repromptPickup
	}
	s.PostLoad.Pickup = loc
	s.Flow = FlowPostLoadDrop
	return fmt.Sprintf("PICKUP: %s\nSTEP 4 OF 6 - DELIVERY LOCATION\nWhere should the load be delivered?\nExamples: Chicago, IL or 456 Warehouse St, Chicago IL", loc)
}

func (e *ConversationEngine) handlePostLoadDrop(s *Session, input string) string {
	loc := cleanLocation(input)
	if loc == "" {
		return repromptDrop
	}
	s.PostLoad.Drop = loc
	s.Flow = FlowPostLoadPayment
	return fmt.Sprintf("DELIVERY: %s\nSTEP 5 OF 6 - PAYMENT\nWhat is your budget for this shipment?\nExamples: 2400, $2400, 2400 dollars", loc)
}

func (e *ConversationEngine) handlePostLoadPayment(s *Session, input string) string {
	dollars, ok := parseDollars(input)
	if !ok {
		return repromptPayment
	}
	s.PostLoad.PaymentDollars = dollars
	s.PostLoad.PaymentDisplay = fmt.Sprintf("$%d", dollars)
	s.Flow = FlowPostLoadEquipment
	return fmt.Sprintf("PAYMENT: %s\n%s", s.PostLoad.PaymentDisplay, promptEquipment)
}

func (e *ConversationEngine) handlePostLoadEquipment(s *Session, input string) string {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return repromptEquipment
	}
	selected, ok := equipmentDisplayByChoice[n]
	if !ok {
		return repromptEquipment
	}
	s.PostLoad.EquipmentDisplay = selected

	// lbs -> tons for load_size, rounded to 1 decimal
	loadSize := math.Round(float64(s.PostLoad.WeightLbs)/2000*10) / 10

	jobID, err := e.api.CreateJob(&CreateJobRequest{
		Crop:            s.PostLoad.Crop,
		LoadSize:        loadSize,
		PayoutDollars:   s.PostLoad.PaymentDollars,
		PickupAddress:   s.PostLoad.Pickup,
		DropoffAddress:  s.PostLoad.Drop,
		EquipmentNeeded: []string{equipmentSlug[selected]},
		IsPerishable:    false,
		Notes:           "Posted via WhatsApp",
	})
	if err != nil {
		log.Printf("❌ [upstream] post load failed for %s: %v", s.Phone, err)
		e.sessions.ResetToMain(s)
		return backToMenu(apologyPostLoad)
	}
	s.PostLoad.JobID = jobID

	summary := "LOAD POSTED SUCCESSFULLY\n" +
		fmt.Sprintf("JOB ID: %s\n", jobID) +
		fmt.Sprintf("CROP: %s\n", s.PostLoad.Crop) +
		fmt.Sprintf("WEIGHT: %s\n", s.PostLoad.WeightDisplay) +
		fmt.Sprintf("ROUTE: %s to %s\n", s.PostLoad.Pickup, s.PostLoad.Drop) +
		fmt.Sprintf("PAYMENT: %s\n", s.PostLoad.PaymentDisplay) +
		fmt.Sprintf("EQUIPMENT: %s\n", s.PostLoad.EquipmentDisplay) +
		"Carriers will be notified. You will receive updates when carriers apply."

	e.sessions.ResetToMain(s)
	return backToMenu(summary)
}
