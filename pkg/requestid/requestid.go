package requestid

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Header carries the request id in and out of the API.
const Header = "X-Request-Id"

const maxLength = 128

type ctxKey struct{}

// Generate returns a fresh random request id.
func Generate() string {
	return uuid.NewString()
}

// Accept returns id when it can be echoed back as a request id and a fresh one
// otherwise. Ids must be printable and at most 128 bytes long.
func Accept(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxLength || strings.IndexFunc(id, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return Generate()
	}
	return id
}

func ToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id of ctx, or "" when there is none.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}

// FromContextPtr is FromContext returning nil instead of an empty string.
func FromContextPtr(ctx context.Context) *string {
	if id := FromContext(ctx); id != "" {
		return &id
	}
	return nil
}
