// Package dto defines the JSON shapes exchanged with clients.
package dto

// ScoreSubmission is the body of POST /player_score.
//
// Pointers distinguish a missing field from a zero value.
type ScoreSubmission struct {
	PlayerID *string `json:"player_id" validate:"required,min=1,max=50,player_id"`
	Score    *int64  `json:"score" validate:"required,min=0"`
}

// Asset is one listed sprite or audio file, content base64 encoded.
type Asset struct {
	ID       string `json:"_id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Score is one listed score record.
type Score struct {
	ID       string `json:"_id"`
	PlayerID string `json:"player_id"`
	Score    int64  `json:"score"`
}

// Message is a bare status message.
type Message struct {
	Message string `json:"message"`
}

// Created acknowledges a successful insert.
type Created struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse carries a human readable failure detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldDetail locates one rejected field, e.g. loc ["body", "player_id"].
type FieldDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Detail []FieldDetail `json:"detail"`
}
