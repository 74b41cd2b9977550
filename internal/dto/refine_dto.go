package dto

import "github.com/google/uuid"

type RefineRequest struct {
	Question string `json:"question" validate:"required,max=20000"`
	// Optional session whose stream watchers receive each revision
	SessionId *uuid.UUID `json:"session_id"`
}

type RefineRevision struct {
	Revision int    `json:"revision"`
	Score    int    `json:"score"`
	Critique string `json:"critique"`
}

type RefineResponse struct {
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Score     int              `json:"score"`
	Revisions int              `json:"revisions"`
	Critique  string           `json:"critique"`
	History   []RefineRevision `json:"history"`
}
