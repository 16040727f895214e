package ports

// AuditSink recibe eventos de auditoría. Fire-and-forget: no devuelve error
// y nada en el núcleo depende de que el evento se registre.
type AuditSink interface {
	Record(event string, fields map[string]any)
}

// NopAudit descarta los eventos.
type NopAudit struct{}

func (NopAudit) Record(string, map[string]any) {}
