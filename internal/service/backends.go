package service

import (
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
	"github.com/Garondorf03/GameClipsHub/internal/storage/metadata"
)

// Backends — клиенты хранилищ, выбранные при старте.
// nil означает, что хранилище не настроено.
type Backends struct {
	Blob     blob.Store
	Metadata metadata.Store
}
