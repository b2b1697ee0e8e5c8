package services

// Reply texts for the numbered-menu dialogue. Plain text only - WhatsApp
// renders these verbatim.

// MainMenu is the top-level menu, shown on first contact and after every
// completed or failed flow.
func MainMenu() string {
	return "AGRIHAUL FREIGHT PLATFORM\n" +
		"MAIN MENU - Choose an option:\n" +
		"1 - Post a Load (Farmers)\n" +
		"2 - Find Loads (Carriers)\n" +
		"3 - Track Shipment\n" +
		"4 - Rate Completed Job\n" +
		"Reply with the number only (1, 2, 3, or 4)"
}

// UnexpectedErrorReply is the last-resort reply when the webhook handler
// itself fails; the channel always gets a well-formed message.
func UnexpectedErrorReply() string {
	return "An unexpected error occurred. Returning to the Main Menu.\n\n" + MainMenu()
}

// backToMenu appends the main menu after a flow summary or apology
func backToMenu(message string) string {
	return message + "\n\n" + MainMenu()
}

const (
	promptPostLoadCrop = "POST NEW LOAD\n" +
		"What type of crop are you shipping?\n" +
		"Examples: corn, soybeans, wheat, tomatoes"

	promptFindLoadsLocation = "FIND AVAILABLE LOADS\nPlease share your current location or type your city and state"

	promptTrackJob = "TRACK SHIPMENT\nEnter the Job ID to view status."

	promptRateJob = "RATE COMPLETED JOB\nEnter the Job ID you want to rate."

	promptLinkCarrier = "ACCOUNT LINK REQUIRED\n" +
		"To apply for loads, enter your AgriHaul Carrier ID.\n" +
		"If you do not know it, please contact support.\n" +
		"Reply with your Carrier ID (UUID format)."

	promptEquipment = "STEP 6 OF 6 - EQUIPMENT TYPE\n" +
		"Select the required equipment:\n" +
		"1 - Dry Van\n" +
		"2 - Refrigerated Truck\n" +
		"3 - Flatbed\n" +
		"4 - Grain Hopper\n" +
		"Reply with the number (1-4)"

	repromptCrop      = "Please enter a valid crop type. Examples: corn, soybeans, wheat, tomatoes"
	repromptWeight    = "Invalid weight format. Please provide examples like: 40000 lbs, 25 tons, 18000 pounds"
	repromptPickup    = "Please provide a pickup location such as 'Fresno, CA' or a full address."
	repromptDrop      = "Please provide a delivery location such as 'Chicago, IL' or a full address."
	repromptPayment   = "Invalid payment amount. Enter a number like 2400 or $2400."
	repromptEquipment = "Invalid selection. Reply with 1, 2, 3, or 4."
	repromptLocation  = "Please provide your city and state (e.g., Fresno, CA)."
	repromptCarrierID = "Invalid Carrier ID. Please re-enter your Carrier ID."
	repromptJobID     = "Enter a valid Job ID."
	repromptScore     = "Invalid rating. Enter a number from 1 to 5."

	apologyPostLoad  = "We could not post the load due to a system error. Returning to the Main Menu."
	apologyFindLoads = "We could not fetch loads right now. Returning to the Main Menu."
	apologyAccept    = "We could not submit your application. Returning to the Main Menu."
	apologyTrack     = "We could not find that job. Returning to the Main Menu."
	apologyRating    = "We could not submit your rating. Returning to the Main Menu."
)
