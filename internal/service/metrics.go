// metrics.go — бизнес-метрики Prometheus сервисного слоя.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadsTotal — загрузки по результату: success, validation, configuration, storage.
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ch_uploads_total",
			Help: "Общее количество загрузок файлов",
		},
		[]string{"result"},
	)

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ch_upload_bytes_total",
		Help: "Объём успешно записанных в blob-хранилище данных в байтах",
	})

	// listingsTotal — запросы листинга по источнику: metadata, blob, none.
	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ch_listings_total",
			Help: "Общее количество запросов списка файлов",
		},
		[]string{"source"},
	)

	blobFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ch_blob_fetch_total",
			Help: "Общее количество запросов файлов через /api/blob",
		},
		[]string{"result"},
	)

	// orphanBlobsTotal — blob записан, но запись метаданных не создана.
	orphanBlobsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ch_orphan_blobs_total",
		Help: "Количество blob без записи метаданных (ошибка вставки после загрузки)",
	})
)

// resultLabel возвращает значение лейбла result для ошибки.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	return KindOf(err).String()
}
