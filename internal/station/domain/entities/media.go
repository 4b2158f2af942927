// Package entities содержит доменные модели станции полевых заметок.
package entities

import "github.com/google/uuid"

// Kind - дискриминант типа медиазаписи.
type Kind string

// Поддерживаемые виды медиа.
const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Media представляет загруженную медиазапись, привязанную к заметке.
// ID назначается на клиенте в момент захвата и не меняется.
// URI пуст только до завершения загрузки; в составе заметки это
// всегда удаленный локатор.
type Media struct {
	ID        string `json:"uuid"`
	Kind      Kind   `json:"type"`
	URI       string `json:"uri"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// Audio представляет аудиозапись заметки.
type Audio struct {
	ID       string  `json:"uuid"`
	URI      string  `json:"uri"`
	Duration float64 `json:"duration"`
}

// NewPhoto создает медиазапись для изображения.
func NewPhoto(uri string) Media {
	return Media{
		ID:   uuid.New().String(),
		Kind: KindImage,
		URI:  uri,
	}
}

// NewVideo создает медиазапись для видео с миниатюрой и длительностью.
func NewVideo(uri, thumbnail, duration string) Media {
	return Media{
		ID:        uuid.New().String(),
		Kind:      KindVideo,
		URI:       uri,
		Thumbnail: thumbnail,
		Duration:  duration,
	}
}

// NewAudio создает аудиозапись с длительностью в секундах.
func NewAudio(uri string, duration float64) Audio {
	return Audio{
		ID:       uuid.New().String(),
		URI:      uri,
		Duration: duration,
	}
}
