// path.go — нормализация ссылки на объект (URL или ключ) в ключ хранилища.
package blob

import (
	"net/url"
	"strings"
)

// KeyFromReference возвращает ключ объекта по ссылке из запроса /api/blob.
//
// Абсолютный http(s) URL разбирается: ключ — всё, что идёт после первого
// сегмента пути, равного имени контейнера. Если такого сегмента нет,
// отбрасывается первый сегмент. Любое другое значение считается ключом как есть.
func KeyFromReference(ref, container string) string {
	lower := strings.ToLower(ref)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	// Декодированный путь: %20 и прочие escape-последовательности
	// превращаются в реальные символы ключа.
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == container {
			return strings.Join(segments[i+1:], "/")
		}
	}
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[1:], "/")
}

// escapeKey кодирует каждый сегмент ключа для подстановки в путь URL.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
