// Package storage реализует shared storage шлюза: каталог с двумя зонами на общем диске,
// через который шлюз и конвертер передают файлы. Адресация только по имени файла:
//   - uploads/<uuid><ext>: загруженные клиентом исходники (StagedUpload);
//   - results/<name>: результаты конвертации, их пишет внешний конвертер.
//
// Файл в uploads/ появляется атомарно: сначала пишется скрытый .staging-<uuid>, затем
// переименовывается в окончательное имя с расширением.
package storage
