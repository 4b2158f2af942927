package entities

import (
	"path/filepath"
	"strings"
)

// LocalAsset - локальный медиафайл, полученный от устройства захвата.
// Duration - подсказка о длительности от платформы; для фото пуста.
type LocalAsset struct {
	URI      string
	Duration string
}

// Ext возвращает расширение файла в нижнем регистре без точки.
func (a LocalAsset) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(a.URI), "."))
}
