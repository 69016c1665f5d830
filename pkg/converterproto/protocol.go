// Package converterproto описывает протокол HTTP-взаимодействия шлюза с сервисом конвертации.
package converterproto

// Параметры REST-протокола конвертера.
const (
	ConvertPath     = "/convert"
	ContentTypeJSON = "application/json"
)

// ConvertRequest: тело POST /convert.
type ConvertRequest struct {
	FilePath       string `json:"filePath"`
	OutputFileName string `json:"outputFileName"`
}

// ConvertResponse: успешный ответ конвертера.
type ConvertResponse struct {
	ResultPath string `json:"resultPath"`
}
