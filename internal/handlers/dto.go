package handlers

import "time"

type CaseStatus string

const (
	StatusPending CaseStatus = "Pending"
	StatusSolved  CaseStatus = "Solved"
)

type Case struct {
	ID                int64      `json:"id"`
	Description       string     `json:"description"`
	Status            CaseStatus `json:"status"`
	AdminResponse     *string    `json:"admin_response"`
	ResponseTimestamp *time.Time `json:"response_timestamp"`
	CreatedAt         time.Time  `json:"created_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Solved"`
}

type RespondRequest struct {
	AdminResponse string `json:"adminResponse" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
