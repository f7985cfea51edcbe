// Пакет model — доменные модели GameClipsHub.
// AssetRecord — запись метаданных загруженного медиафайла.
package model

import (
	"strings"
	"time"
)

// TimestampLayout — формат метки времени загрузки (UTC, микросекунды).
// Фиксированная ширина: лексикографический порядок совпадает с хронологическим.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Значения полей формы по умолчанию.
const (
	DefaultFileName = "untitled"
	DefaultUserID   = "unknown"
	DefaultUserName = "anonymous"
)

// AssetRecord — запись о загруженном файле в хранилище метаданных.
// JSON-теги совпадают с полями документа в Cosmos DB и ответом /api/images.
type AssetRecord struct {
	// ID — BlobPath с заменой всех "/" на "_"
	ID string `json:"id,omitempty" bson:"id,omitempty"`
	// FileName — отображаемое имя, заданное пользователем
	FileName string `json:"fileName" bson:"fileName"`
	// UserID — идентификатор автора (свободный текст)
	UserID string `json:"userID,omitempty" bson:"userID,omitempty"`
	// UserName — имя автора (свободный текст)
	UserName string `json:"userName,omitempty" bson:"userName,omitempty"`
	// BlobURL — URL объекта в blob-хранилище
	BlobURL string `json:"blobUrl" bson:"blobUrl"`
	// BlobPath — ключ объекта: {userID}/{timestamp}_{originalFilename}
	BlobPath string `json:"blobPath" bson:"blobPath"`
	// Timestamp — время загрузки в формате TimestampLayout
	Timestamp string `json:"timestamp" bson:"timestamp"`
	// ContentType — MIME-тип, переданный клиентом
	ContentType string `json:"contentType" bson:"contentType"`
}

// FormatTimestamp форматирует момент времени в UTC по TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BlobPath строит ключ объекта для загрузки.
func BlobPath(userID, timestamp, originalFilename string) string {
	return userID + "/" + timestamp + "_" + originalFilename
}

// SanitizeID преобразует ключ объекта в идентификатор записи.
func SanitizeID(blobPath string) string {
	return strings.ReplaceAll(blobPath, "/", "_")
}

// OrDefault возвращает value или def, если value пустое.
func OrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// NewAssetRecord создаёт запись для загрузки, выполненной в момент now.
// Пустые fileName, userID, userName заменяются значениями по умолчанию.
func NewAssetRecord(fileName, userID, userName, originalFilename, contentType string, now time.Time) *AssetRecord {
	userID = OrDefault(userID, DefaultUserID)
	ts := FormatTimestamp(now)
	blobPath := BlobPath(userID, ts, originalFilename)

	return &AssetRecord{
		ID:          SanitizeID(blobPath),
		FileName:    OrDefault(fileName, DefaultFileName),
		UserID:      userID,
		UserName:    OrDefault(userName, DefaultUserName),
		BlobPath:    blobPath,
		Timestamp:   ts,
		ContentType: contentType,
	}
}
