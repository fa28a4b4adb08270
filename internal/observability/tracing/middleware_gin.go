package tracing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/inkwell/internal/observability/context"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Span attributes describing who a request acted as.
const (
	AttrRequestedOrg = attribute.Key("inkwell.org.requested")
	AttrOrganization = attribute.Key("inkwell.org.id")
	AttrStaff        = attribute.Key("inkwell.staff.id")
	AttrRole         = attribute.Key("inkwell.staff.role")
	AttrUser         = attribute.Key("enduser.id")
)

// GinMiddleware opens a server span per request. The span records the
// organization asked for in X-Org up front and, once handlers have run, the
// membership the scope gate resolved for it.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("inkwell/http")
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if requested := strings.TrimSpace(c.GetHeader("X-Org")); requested != "" {
			span.SetAttributes(AttrRequestedOrg.String(requested))
		}
		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
			if member, err := baggage.NewMember("request_id", requestID); err == nil {
				if bag, err := baggage.New(member); err == nil {
					ctx = baggage.ContextWithBaggage(ctx, bag)
				}
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + method + " " + route)
		span.SetAttributes(SafeAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)...)
		span.SetAttributes(membershipAttributes(c.Request)...)

		if status >= http.StatusInternalServerError {
			if last := c.Errors.Last(); last != nil {
				if safe := SafeError(last.Err); safe != nil {
					span.RecordError(safe)
				}
			}
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// membershipAttributes reads the final request context, which carries the
// session and membership published by middleware further down the chain.
func membershipAttributes(r *http.Request) []attribute.KeyValue {
	ctx := r.Context()
	var attrs []attribute.KeyValue
	if _, userID := obscontext.ActorFromContext(ctx); userID != "" {
		attrs = append(attrs, AttrUser.String(userID))
	}
	m, err := orgcontext.MembershipFromContext(ctx)
	if err != nil {
		return attrs
	}
	return append(attrs,
		AttrOrganization.String(m.OrganizationID.String()),
		AttrStaff.String(m.StaffID.String()),
		AttrRole.String(string(m.Role)),
	)
}
