package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error types recorded on failed pipeline spans.
const (
	ErrTypeSyntax    = "syntax"
	ErrTypeTransform = "transform"
	ErrTypePrint     = "print"
	ErrTypeVerify    = "verify"
	ErrTypeCanceled  = "canceled"
	ErrTypeIO        = "io"
)

const (
	attrErrorType   = "error.type"
	attrErrorSource = "error.source"
)

// RecordSpanError marks span as failed with err, tagging it with the error
// type and, when non-empty, the pipeline stage it came from.
func RecordSpanError(span trace.Span, err error, errType, source string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	attrs := []attribute.KeyValue{attribute.String(attrErrorType, errType)}
	if source != "" {
		attrs = append(attrs, attribute.String(attrErrorSource, source))
	}

	span.SetAttributes(attrs...)
}
