package po

import (
	"encoding/json"
	"time"

	"voicenotes/domain/voicenote"
)

// VoiceNotePO Voice note persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type VoiceNotePO struct {
	ID                  string `gorm:"primaryKey;size:64"`
	UserID              string `gorm:"size:64;index"`
	SessionID           string `gorm:"size:64;index"`
	Title               string `gorm:"size:255;not null"`
	AudioRef            string `gorm:"size:512;not null"`
	FileSizeBytes       int64  `gorm:"not null"`
	MimeType            string `gorm:"size:64"`
	Language            string `gorm:"size:8;not null"`
	Status              string `gorm:"size:20;not null;index"`
	Tags                string `gorm:"type:text"` // JSON-encoded string array
	ErrorMessage        string `gorm:"size:512"`
	TranscriptionPrompt string `gorm:"type:text"`
	SummaryPrompt       string `gorm:"type:text"`

	TranscriptionText       string  `gorm:"type:text"`
	TranscriptionLanguage   string  `gorm:"size:8"`
	TranscriptionDuration   float64 `gorm:"default:0"`
	TranscriptionConfidence float64 `gorm:"default:0"`
	TranscriptionCreatedAt  *time.Time

	SummaryText        string `gorm:"type:text"`
	SummaryKeyPoints   string `gorm:"type:text"` // JSON-encoded string array
	SummaryActionItems string `gorm:"type:text"` // JSON-encoded string array
	SummaryCreatedAt   *time.Time

	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName Specify table name
func (VoiceNotePO) TableName() string {
	return "voice_notes"
}

// FromVoiceNoteDomain Convert domain model to persistence object
func FromVoiceNoteDomain(n *voicenote.VoiceNote) *VoiceNotePO {
	p := &VoiceNotePO{
		ID:                  n.ID(),
		UserID:              n.UserID(),
		SessionID:           n.SessionID(),
		Title:               n.Title(),
		AudioRef:            n.AudioRef(),
		FileSizeBytes:       n.FileSizeBytes(),
		MimeType:            n.MimeType(),
		Language:            n.Language().String(),
		Status:              n.Status().String(),
		Tags:                encodeStrings(n.Tags()),
		ErrorMessage:        n.ErrorMessage(),
		TranscriptionPrompt: n.TranscriptionPrompt(),
		SummaryPrompt:       n.SummaryPrompt(),
		Version:             n.Version(),
		CreatedAt:           n.CreatedAt(),
		UpdatedAt:           n.UpdatedAt(),
	}
	if t := n.Transcription(); t != nil {
		createdAt := t.CreatedAt()
		p.TranscriptionText = t.Text()
		p.TranscriptionLanguage = t.Language().String()
		p.TranscriptionDuration = t.Duration()
		p.TranscriptionConfidence = t.Confidence()
		p.TranscriptionCreatedAt = &createdAt
	}
	if s := n.Summary(); s != nil {
		createdAt := s.CreatedAt()
		p.SummaryText = s.Text()
		p.SummaryKeyPoints = encodeStrings(s.KeyPoints())
		p.SummaryActionItems = encodeStrings(s.ActionItems())
		p.SummaryCreatedAt = &createdAt
	}
	return p
}

// ToDomain Convert persistence object to domain model
func (p *VoiceNotePO) ToDomain() (*voicenote.VoiceNote, error) {
	id, err := voicenote.ParseNoteID(p.ID)
	if err != nil {
		return nil, err
	}
	language, err := voicenote.ParseLanguage(p.Language)
	if err != nil {
		return nil, err
	}
	status, err := voicenote.ParseStatus(p.Status)
	if err != nil {
		return nil, err
	}

	dto := voicenote.ReconstructionDTO{
		ID:                  id,
		UserID:              p.UserID,
		SessionID:           p.SessionID,
		Title:               p.Title,
		AudioRef:            p.AudioRef,
		FileSizeBytes:       p.FileSizeBytes,
		MimeType:            p.MimeType,
		Language:            language,
		Status:              status,
		Tags:                decodeStrings(p.Tags),
		ErrorMessage:        p.ErrorMessage,
		TranscriptionPrompt: p.TranscriptionPrompt,
		SummaryPrompt:       p.SummaryPrompt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}

	if p.TranscriptionCreatedAt != nil {
		trLang := language
		if parsed, err := voicenote.ParseLanguage(p.TranscriptionLanguage); err == nil {
			trLang = parsed
		}
		dto.Transcription = voicenote.RebuildTranscription(
			p.TranscriptionText, trLang, p.TranscriptionDuration,
			p.TranscriptionConfidence, *p.TranscriptionCreatedAt)
	}
	if p.SummaryCreatedAt != nil {
		dto.Summary = voicenote.RebuildSummary(
			p.SummaryText, decodeStrings(p.SummaryKeyPoints),
			decodeStrings(p.SummaryActionItems), language, *p.SummaryCreatedAt)
	}

	return voicenote.RebuildFromDTO(dto), nil
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
