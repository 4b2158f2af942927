package capture

import (
	"sync"

	"fieldnotes/internal/station/domain/entities"
)

// Attachments накапливает медиазаписи черновика заметки.
// Завершения параллельных захватов сериализуются мьютексом, иначе
// наивное чтение-изменение-запись общего среза теряет одну из записей.
type Attachments struct {
	mu    sync.Mutex
	media []entities.Media
	audio []entities.Audio
}

// AppendMedia добавляет медиазапись в конец последовательности.
func (a *Attachments) AppendMedia(record entities.Media) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.media = append(a.media, record)
}

// AppendAudio добавляет аудиозапись в конец последовательности.
func (a *Attachments) AppendAudio(record entities.Audio) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.audio = append(a.audio, record)
}

// Media возвращает копию накопленной последовательности медиа.
func (a *Attachments) Media() []entities.Media {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entities.Media, len(a.media))
	copy(out, a.media)
	return out
}

// Audio возвращает копию накопленной последовательности аудио.
func (a *Attachments) Audio() []entities.Audio {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entities.Audio, len(a.audio))
	copy(out, a.audio)
	return out
}
