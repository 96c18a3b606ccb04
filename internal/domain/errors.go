package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Todos se verifican con errors.Is: las capas inferiores los envuelven con
// fmt.Errorf("...: %w", ...) para añadir contexto (referencia de la
// operación, línea ofensora) sin perder la identidad del error.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInvalidTransition: la operación no está en un estado desde el que
	// se permita la transición pedida (guarda compare-and-swap dentro de la
	// transacción; de dos peticiones concurrentes exactamente una gana).
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// ErrQuantityMismatch: las ediciones de la reconciliación no cubren
	// todas las líneas pendientes o no conservan la cantidad solicitada.
	ErrQuantityMismatch = errors.New("las cantidades editadas no cuadran con lo solicitado")

	// ErrAllLinesCanceled: una reconciliación no puede cancelar todas las
	// líneas; para eso existe la cancelación explícita de la operación.
	ErrAllLinesCanceled = errors.New("todas las líneas quedarían canceladas")

	// ErrNegativeBalance: un bucket del snapshot quedaría negativo. Nunca se
	// recorta en silencio: indica un bug de reconciliación aguas arriba y
	// aborta la transacción completa.
	ErrNegativeBalance = errors.New("el saldo del bucket quedaría negativo")

	// ErrInconsistentReference: una edición referencia una línea que no
	// pertenece a la operación (o que ya no está pendiente).
	ErrInconsistentReference = errors.New("la edición referencia una línea ajena a la operación")

	// ErrInsufficientStock: no hay unidades físicas suficientes en la bodega
	// origen para cubrir la cantidad pedida.
	ErrInsufficientStock = errors.New("stock insuficiente")
)
