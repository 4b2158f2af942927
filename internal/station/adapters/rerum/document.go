package rerum

import (
	"time"

	"fieldnotes/internal/station/domain/entities"
)

// noteDocument - формат документа заметки на проводе.
// Имена полей закреплены протоколом хранилища (включая BodyText и @id).
type noteDocument struct {
	ID        string           `json:"@id,omitempty"`
	Type      string           `json:"type"`
	Title     string           `json:"title"`
	Media     []entities.Media `json:"media"`
	BodyText  string           `json:"BodyText"`
	Creator   string           `json:"creator"`
	Latitude  string           `json:"latitude"`
	Longitude string           `json:"longitude"`
	Audio     []entities.Audio `json:"audio"`
	Published bool             `json:"published"`
	Tags      []string         `json:"tags"`
	Time      string           `json:"time"`
}

// toDocument собирает документ из заметки. Пустое время заполняется
// текущим моментом, как делало исходное приложение при создании.
func (c *Client) toDocument(note *entities.Note) noteDocument {
	createdTime := note.Time
	if createdTime == "" {
		createdTime = c.now().Format(time.RFC3339)
	}

	media := note.Media
	if media == nil {
		media = []entities.Media{}
	}
	audio := note.Audio
	if audio == nil {
		audio = []entities.Audio{}
	}
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	return noteDocument{
		ID:        note.ID,
		Type:      documentType,
		Title:     note.Title,
		Media:     media,
		BodyText:  note.Text,
		Creator:   note.Creator,
		Latitude:  note.Latitude,
		Longitude: note.Longitude,
		Audio:     audio,
		Published: note.Published,
		Tags:      tags,
		Time:      createdTime,
	}
}

// toNote собирает заметку из документа хранилища.
func (d noteDocument) toNote() entities.Note {
	return entities.Note{
		ID:        d.ID,
		Title:     d.Title,
		Text:      d.BodyText,
		Time:      d.Time,
		Media:     d.Media,
		Audio:     d.Audio,
		Creator:   d.Creator,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Published: d.Published,
		Tags:      d.Tags,
	}
}
