package models

import "time"

// StagedUpload описывает загруженный клиентом файл, лежащий в зоне uploads/.
type StagedUpload struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Ext          string    `json:"ext"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileName возвращает имя файла внутри зоны: идентификатор плюс расширение.
func (u StagedUpload) FileName() string {
	return u.ID + u.Ext
}
