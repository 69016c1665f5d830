package storage

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sir_venger/docgate/internal/models"
)

const (
	maxExtLen  = 16
	maxStemLen = 200
)

// BaseName отрезает от имени всё до последнего разделителя, учитывая и виндовый '\'.
// Клиенты и конвертер бывают на разных ОС, поэтому '\' тоже считается разделителем.
func BaseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}

	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// ExtFromName возвращает расширение исходного имени в нижнем регистре или "", если
// расширения нет либо оно подозрительное (не буквы/цифры, слишком длинное).
func ExtFromName(name string) string {
	ext := path.Ext(BaseName(name))
	if len(ext) < 2 || len(ext) > maxExtLen+1 {
		return ""
	}
	for _, r := range ext[1:] {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return ""
		}
	}
	return strings.ToLower(ext)
}

// OutputName строит имя результата: stem исходного имени плюс targetExt.
// Если от исходного имени ничего не осталось, используется fallback (обычно id загрузки).
func OutputName(originalName, targetExt, fallback string) string {
	base := BaseName(originalName)
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = sanitizeStem(stem)
	if stem == "" {
		stem = fallback
	}
	return stem + targetExt
}

func sanitizeStem(stem string) string {
	stem = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' || r == '\\' || r == ':' {
			return -1
		}
		return r
	}, stem)
	// ".." внутри имени ValidateLocator отвергает, а конвертер пишет результат ровно под этим именем
	for strings.Contains(stem, "..") {
		stem = strings.ReplaceAll(stem, "..", ".")
	}

	if r := []rune(stem); len(r) > maxStemLen {
		stem = string(r[:maxStemLen])
	}
	return strings.Trim(stem, ". ")
}

// ValidateLocator проверяет, что имя является голым basename без обхода каталогов.
func ValidateLocator(name string) error {
	switch {
	case name == "",
		strings.ContainsAny(name, "/\\\x00"),
		strings.Contains(name, ".."),
		strings.HasPrefix(name, "."),
		filepath.IsAbs(name),
		filepath.VolumeName(name) != "":
		return models.ErrInvalidName
	}
	return nil
}
