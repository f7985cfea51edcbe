// Пакет pages — серверный рендеринг HTML-страниц (html/template).
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// IndexData — данные главной страницы.
type IndexData struct {
	Version string
	// MaxUploadMB — лимит размера загрузки в мегабайтах (для подсказки в форме)
	MaxUploadMB int64
	// BlobConfigured — настроено ли blob-хранилище (иначе форма загрузки отключена)
	BlobConfigured bool
}

// RenderIndex рендерит главную страницу. Шаблон выполняется в буфер,
// чтобы ошибка рендеринга не оставила частично записанный ответ.
func RenderIndex(w io.Writer, data IndexData) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return fmt.Errorf("ошибка рендеринга index.html: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
