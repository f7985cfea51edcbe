// cache.go — LRU-кэш MIME-типов объектов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ch_content_type_cache_hits_total",
		Help: "Общее количество попаданий в кэш MIME-типов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ch_content_type_cache_misses_total",
		Help: "Общее количество промахов кэша MIME-типов.",
	})
)

// ContentTypeCache — кэш MIME-типов по ключу объекта.
// Избавляет листинг blob-хранилища от повторных HeadObject для каждого объекта.
type ContentTypeCache struct {
	cache *expirable.LRU[string, string]
}

// NewContentTypeCache создаёт кэш с указанным максимальным размером и TTL.
func NewContentTypeCache(maxSize int, ttl time.Duration) *ContentTypeCache {
	return &ContentTypeCache{
		cache: expirable.NewLRU[string, string](maxSize, nil, ttl),
	}
}

// Get возвращает MIME-тип объекта при hit.
func (c *ContentTypeCache) Get(key string) (string, bool) {
	val, ok := c.cache.Get(key)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return "", false
}

// Set добавляет или обновляет запись.
func (c *ContentTypeCache) Set(key, contentType string) {
	c.cache.Add(key, contentType)
}

// Delete удаляет запись (объект перезаписан или удалён).
func (c *ContentTypeCache) Delete(key string) {
	c.cache.Remove(key)
}

// Len возвращает текущее количество записей.
func (c *ContentTypeCache) Len() int {
	return c.cache.Len()
}
