package ports

import "time"

// ComposeMetrics métricas de la composición de documentos.
type ComposeMetrics interface {
	ObserveCompose(kind, outcome string, lines int, elapsed time.Duration)
}

// NopMetrics descarta las observaciones.
type NopMetrics struct{}

func (NopMetrics) ObserveCompose(string, string, int, time.Duration) {}
