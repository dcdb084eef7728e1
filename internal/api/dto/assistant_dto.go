package dto

// ChatRequest payload for POST /ai/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Response         string   `json:"response"`
	Timestamp        string   `json:"timestamp"`
	SuggestedActions []string `json:"suggested_actions"`
}

// QuickFixesResponse lists the checklist for an issue type.
type QuickFixesResponse struct {
	IssueType  string   `json:"issue_type"`
	QuickFixes []string `json:"quick_fixes"`
}
