package entities

// Note представляет полевую заметку.
// ID пуст до первого сохранения; после создания заметка изменяется
// только полной перезаписью по этому идентификатору.
type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Time        string   `json:"time"`
	Media       []Media  `json:"media"`
	Audio       []Audio  `json:"audio"`
	Creator     string   `json:"creator"`
	CreatorName string   `json:"creator_name,omitempty"`
	Latitude    string   `json:"latitude"`
	Longitude   string   `json:"longitude"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags"`
}
