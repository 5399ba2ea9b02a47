package tool

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a failed tool invocation. The formatter decides the
// final wording; kinds are for routing and logs, never echoed verbatim.
type ErrorKind string

const (
	// KindExecution means the external store failed to carry out the call.
	KindExecution ErrorKind = "tool_execution"
	// KindMalformedResult means the store returned a shape the normalizer
	// does not recognise. Logged, surfaced to the user generically.
	KindMalformedResult ErrorKind = "malformed_result"
	// KindNotFound means the referenced task does not exist. This is a
	// validation-type error the user can act on, so the formatter may
	// surface it directly.
	KindNotFound ErrorKind = "not_found"
	// KindInvalidArgument means the store rejected an argument value.
	KindInvalidArgument ErrorKind = "invalid_argument"
)

// ResultError carries a classified tool failure.
type ResultError struct {
	Kind    ErrorKind
	Message string
}

func (e *ResultError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Result is the normalized outcome of a tool invocation: either a payload
// or a classified error, never both.
type Result struct {
	// Payload holds the parsed success payload; valid only when Err is nil.
	Payload gjson.Result
	Err     *ResultError
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Success wraps a parsed payload.
func Success(payload gjson.Result) Result {
	return Result{Payload: payload}
}

// Failure wraps a classified error.
func Failure(kind ErrorKind, message string) Result {
	return Result{Err: &ResultError{Kind: kind, Message: message}}
}

// ErrNotFound is the sentinel store implementations return for a missing
// task; NormalizeErr maps it to KindNotFound.
var ErrNotFound = errors.New("task not found")

// Normalize converts a raw tool payload into a Result. Accepted shapes:
//
//   - a flat JSON object or array — used as the payload directly
//   - an object nested under a single "output" or "input" key — unwrapped
//   - an object carrying an "error" member — converted to a Failure
//   - a bare scalar (string, number, boolean) — used as the payload
//
// Anything else (invalid JSON, null, empty input) is a malformed result.
// Unexpected shapes are never silently coerced.
func Normalize(raw []byte) Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Failure(KindMalformedResult, "tool returned unparseable output")
	}

	v := gjson.ParseBytes(raw)

	// Unwrap one level of envelope nesting.
	for _, key := range []string{"output", "input"} {
		if inner := v.Get(key); inner.Exists() {
			v = inner
			break
		}
	}

	if errVal := v.Get("error"); errVal.Exists() {
		kind := ErrorKind(errVal.Get("kind").String())
		switch kind {
		case KindExecution, KindMalformedResult, KindNotFound, KindInvalidArgument:
		default:
			kind = KindExecution
		}
		msg := errVal.Get("message").String()
		if msg == "" {
			msg = errVal.String()
		}
		return Failure(kind, msg)
	}

	switch v.Type {
	case gjson.JSON:
		// Object or array.
		return Success(v)
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return Success(v)
	default:
		return Failure(KindMalformedResult, "tool returned an unrecognised shape")
	}
}

// NormalizeErr converts an invoker error into a Result, mapping the
// ErrNotFound sentinel onto its user-actionable kind.
func NormalizeErr(err error) Result {
	if errors.Is(err, ErrNotFound) {
		return Failure(KindNotFound, err.Error())
	}
	return Failure(KindExecution, err.Error())
}
