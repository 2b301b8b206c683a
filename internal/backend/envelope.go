// Package backend holds the pieces every resource service shares: the response
// envelope, the simulated network latency, identifier reservation and timestamps.
package backend

// Kind classifies a failed envelope. It never leaves the process as JSON; the
// HTTP layer maps it to a status code and the remote client maps it back.
type Kind string

const (
	KindNone        Kind = ""
	KindNotFound    Kind = "not_found"
	KindInvalid     Kind = "invalid"
	KindUnavailable Kind = "unavailable"
	KindCancelled   Kind = "cancelled"
)

// Envelope is the uniform result of every service call. Callers check Success
// instead of handling errors.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
	Kind    Kind   `json:"-"`
}

func OK[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Message: message}
}

// List wraps a collection result and reports its size in Total. A nil slice is
// replaced by an empty one so the wire form is [] rather than null.
func List[T any](items []T, message string) Envelope[[]T] {
	if items == nil {
		items = []T{}
	}
	total := len(items)
	return Envelope[[]T]{Success: true, Data: items, Message: message, Total: &total}
}

func Fail[T any](kind Kind, message string) Envelope[T] {
	var zero T
	return Envelope[T]{Success: false, Data: zero, Message: message, Kind: kind}
}

func NotFound[T any](message string) Envelope[T] {
	return Fail[T](KindNotFound, message)
}

func Invalid[T any](message string) Envelope[T] {
	return Fail[T](KindInvalid, message)
}

func Unavailable[T any](message string) Envelope[T] {
	return Fail[T](KindUnavailable, message)
}

// WithPage attaches pagination metadata without touching Data.
func (e Envelope[T]) WithPage(page, limit int) Envelope[T] {
	e.Page = &page
	e.Limit = &limit
	return e
}

// Cancelled is returned when the caller's context ends during the simulated wait.
func Cancelled[T any](err error) Envelope[T] {
	return Fail[T](KindCancelled, "request cancelled: "+err.Error())
}
