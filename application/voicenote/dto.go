package voicenote

import (
	"time"

	"voicenotes/domain/voicenote"
)

// UploadCommand Upload request carrying the raw audio and its metadata
type UploadCommand struct {
	UserID              string
	SessionID           string
	Title               string
	FileName            string
	MimeType            string
	Language            string
	Tags                []string
	TranscriptionPrompt string
	SummaryPrompt       string
	Data                []byte
}

// VoiceNoteResponse Voice note response DTO
type VoiceNoteResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id,omitempty"`
	SessionID     string                 `json:"session_id,omitempty"`
	Title         string                 `json:"title"`
	Language      string                 `json:"language"`
	Status        string                 `json:"status"`
	Tags          []string               `json:"tags,omitempty"`
	ErrorMessage  string                 `json:"error_message,omitempty"`
	FileSizeBytes int64                  `json:"file_size_bytes"`
	MimeType      string                 `json:"mime_type"`
	Transcription *TranscriptionResponse `json:"transcription,omitempty"`
	Summary       *SummaryResponse       `json:"summary,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
}

// TranscriptionResponse Transcription response DTO
type TranscriptionResponse struct {
	Text       string  `json:"text"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
}

// SummaryResponse Summary response DTO
type SummaryResponse struct {
	Text        string   `json:"text"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items,omitempty"`
}

// EventResponse Domain event response DTO for the audit log endpoint
type EventResponse struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// ProcessCommand Process request DTO. Language, when set, overrides the
// note's stored language for transcription.
type ProcessCommand struct {
	Language string `json:"language"`
}

// ReprocessCommand Reprocess request DTO
type ReprocessCommand struct {
	Reason       string `json:"reason"`
	CustomPrompt string `json:"custom_prompt"`
}

// UpdateTagsCommand Tag replacement request DTO
type UpdateTagsCommand struct {
	Tags []string `json:"tags"`
}

func toVoiceNoteResponse(n *voicenote.VoiceNote) *VoiceNoteResponse {
	resp := &VoiceNoteResponse{
		ID:            n.ID(),
		UserID:        n.UserID(),
		SessionID:     n.SessionID(),
		Title:         n.Title(),
		Language:      n.Language().String(),
		Status:        n.Status().String(),
		Tags:          n.Tags(),
		ErrorMessage:  n.ErrorMessage(),
		FileSizeBytes: n.FileSizeBytes(),
		MimeType:      n.MimeType(),
		CreatedAt:     n.CreatedAt(),
		UpdatedAt:     n.UpdatedAt(),
		Version:       n.Version(),
	}
	if t := n.Transcription(); t != nil {
		resp.Transcription = &TranscriptionResponse{
			Text:       t.Text(),
			Language:   t.Language().String(),
			Duration:   t.Duration(),
			Confidence: t.Confidence(),
			WordCount:  t.WordCount(),
		}
	}
	if s := n.Summary(); s != nil {
		resp.Summary = &SummaryResponse{
			Text:        s.Text(),
			KeyPoints:   s.KeyPoints(),
			ActionItems: s.ActionItems(),
		}
	}
	return resp
}
