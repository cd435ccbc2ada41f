/*
Package tracing provides request tracing for debugging production issues.

Every HTTP request gets a span. An incoming X-Trace-ID header is continued,
otherwise a fresh uuid is issued; both ids are echoed back in the response
headers. Finished spans are logged with zap by a background collector.

# Usage

	tracer := tracing.New("nextmac", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "persistence.save")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Trace Format

- X-Trace-ID: Unique identifier for entire request flow
- X-Span-ID: Identifier for current operation
*/
package tracing
