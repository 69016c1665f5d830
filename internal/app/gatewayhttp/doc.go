// Package gatewayhttp реализует HTTP-интерфейс шлюза конвертации. Основные эндпоинты:
//   - POST /upload-convert: принимает multipart с полем file, конвертирует и отдаёт downloadUrl.
//   - GET|HEAD /download/{filename}: отдаёт результат из results/ как attachment.
//   - GET /health: размеры зон shared storage.
//   - POST /admin/gc: ручной проход janitor'а.
package gatewayhttp
