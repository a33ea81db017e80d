package models

type Setting struct {
	BaseUUIDModel
	Category    string `gorm:"type:text;not null;uniqueIndex:idx_settings_category_key" json:"category"`
	Key         string `gorm:"column:setting_key;type:text;not null;uniqueIndex:idx_settings_category_key" json:"key"`
	Value       string `gorm:"type:text"                                              json:"value"`
	Description string `gorm:"type:text"                                              json:"description,omitempty"`
	Sensitive   bool   `gorm:"type:bool;not null"                                     json:"sensitive"`
}

const MaskedSettingValue = "********"

// Masked returns a copy of s safe to serve to clients.
func (s Setting) Masked() Setting {
	if s.Sensitive {
		s.Value = MaskedSettingValue
	}
	return s
}
