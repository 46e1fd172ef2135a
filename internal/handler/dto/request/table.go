package request

type AssignTableRequest struct {
	PartySize          int    `json:"partySize" binding:"required,min=1"`
	LocationPreference string `json:"locationPreference,omitempty"`
}

type ChangeTableStateRequest struct {
	Status string `json:"status" binding:"required"`
}
