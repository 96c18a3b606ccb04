// Package notify implementa el envío best-effort de notificaciones por correo.
// El envío corre en una goroutine propia: encolar nunca bloquea la petición y
// un fallo del SMTP jamás afecta al inventario ya confirmado.
package notify

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var _ stockops.Notifier = (*MailNotifier)(nil)

// MailNotifier notifica despachos de traslado por correo vía SMTP.
// Si el SMTP no está configurado, solo registra la notificación en el log.
type MailNotifier struct {
	cfg   config.SMTPConfig
	log   *logger.Logger
	queue chan stockops.TransferDispatchedNote
	done  chan struct{}
}

// NewMailNotifier construye el notificador y arranca su worker de envío.
func NewMailNotifier(cfg config.SMTPConfig, log *logger.Logger) *MailNotifier {
	n := &MailNotifier{
		cfg:   cfg,
		log:   log,
		queue: make(chan stockops.TransferDispatchedNote, 64),
		done:  make(chan struct{}),
	}
	go n.worker()
	return n
}

// TransferDispatched encola la notificación de mercancía en camino.
// Si la cola está llena se descarta: es correo informativo, no estado.
func (n *MailNotifier) TransferDispatched(note stockops.TransferDispatchedNote) {
	select {
	case n.queue <- note:
	default:
		n.log.Warn().
			Str("transfer", note.TransferReference).
			Msg("cola de notificaciones llena, correo descartado")
	}
}

// Close cierra la cola y espera a que el worker drene lo pendiente.
func (n *MailNotifier) Close() {
	close(n.queue)
	<-n.done
}

func (n *MailNotifier) worker() {
	defer close(n.done)
	for note := range n.queue {
		n.deliver(note)
	}
}

func (n *MailNotifier) deliver(note stockops.TransferDispatchedNote) {
	if !n.cfg.Enabled() {
		n.log.Info().
			Str("transfer", note.TransferReference).
			Str("reception", note.ReceptionReference).
			Str("source", note.SourceWarehouse).
			Str("target", note.TargetWarehouse).
			Int("units", note.Units).
			Msg("despacho de traslado (SMTP deshabilitado, solo log)")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("Traslado %s despachado hacia %s",
		note.TransferReference, note.TargetWarehouse))
	m.SetBody("text/plain", fmt.Sprintf(
		"El traslado %s salió de %s hacia %s con %d unidades.\n"+
			"La recepción %s quedó pendiente en la bodega destino.\n",
		note.TransferReference, note.SourceWarehouse, note.TargetWarehouse,
		note.Units, note.ReceptionReference))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.log.Error().Err(err).
			Str("transfer", note.TransferReference).
			Msg("fallo enviando correo de despacho")
		return
	}
	n.log.Info().
		Str("transfer", note.TransferReference).
		Str("target", note.TargetWarehouse).
		Msg("correo de despacho enviado")
}
