package models

// Conversion возвращается после успешной конвертации и содержит ключевые данные для ответа.
type Conversion struct {
	Upload     StagedUpload
	OutputName string
	// Locator: basename результата в зоне results/, по нему клиент скачивает файл.
	Locator string
}
