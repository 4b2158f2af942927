package entities

// UserProfile представляет профиль пользователя из справочника.
// Ядро читает профиль и никогда не изменяет его.
type UserProfile struct {
	UID   string          `json:"uid"`
	Name  string          `json:"name"`
	Roles map[string]bool `json:"roles,omitempty"`
}
