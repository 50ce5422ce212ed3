// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/z5labs/sieve/schema"

	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Handler implements the business logic of an operation.
//
// It receives one validated [schema.Record] per input schema, in the order
// the schemas were declared with [Input]. The returned record is shaped by
// the output schema declared with [Returns] before it is written.
//
// Returning an error created with [NotFound], or any error embedding
// [ProblemDetail], sends that problem to the client. Any other error is
// reported as an internal server error without its detail.
type Handler interface {
	Handle(context.Context, []*schema.Record) (*schema.Record, error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc func(context.Context, []*schema.Record) (*schema.Record, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	return f(ctx, in)
}

// Stage is a step of dispatching a request to an operation.
type Stage int

const (
	StageReceived Stage = iota
	StageBinding
	StageValidating
	StageInvoking
	StageShaping
	StageResponded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageBinding:
		return "binding"
	case StageValidating:
		return "validating"
	case StageInvoking:
		return "invoking"
	case StageShaping:
		return "shaping"
	case StageResponded:
		return "responded"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// OperationOptions holds configuration for an operation registered with [Operation].
type OperationOptions struct {
	inputs         []*schema.Schema
	embed          bool
	output         *schema.Schema
	status         int
	id             string
	summary        string
	description    string
	tags           []string
	problems       []int
	errHandler     ErrorHandler
	maxUploadBytes int64
}

// OperationOption configures an operation created by [Operation].
type OperationOption func(*OperationOptions)

// Input declares an input schema of the operation. Every field of s is
// bound from the request source it declares. Inputs are validated in
// declaration order and passed to the [Handler] in that same order.
//
// When more than one input reads from the body, each input's body fields
// are read from a nested object keyed by the schema name, e.g.
//
//	{"person": {...}, "location": {...}}
func Input(s *schema.Schema) OperationOption {
	return func(oo *OperationOptions) {
		oo.inputs = append(oo.inputs, s)
	}
}

// EmbedBody reads the body fields of every input from a nested object
// keyed by the schema name, even when only one input reads from the body.
func EmbedBody() OperationOption {
	return func(oo *OperationOptions) {
		oo.embed = true
	}
}

// Returns declares the output schema. Records returned by the [Handler]
// are reduced to exactly the fields of s, in the order of s.
func Returns(s *schema.Schema) OperationOption {
	return func(oo *OperationOptions) {
		oo.output = s
	}
}

// Status sets the success status code. Defaults to 200 OK.
// A 204 No Content status never writes a response body.
func Status(code int) OperationOption {
	return func(oo *OperationOptions) {
		oo.status = code
	}
}

// OperationID sets the OpenAPI operation id.
func OperationID(id string) OperationOption {
	return func(oo *OperationOptions) {
		oo.id = id
	}
}

// Summary sets the OpenAPI summary of the operation.
func Summary(s string) OperationOption {
	return func(oo *OperationOptions) {
		oo.summary = s
	}
}

// Description sets the OpenAPI description of the operation.
func Description(s string) OperationOption {
	return func(oo *OperationOptions) {
		oo.description = s
	}
}

// Tags groups the operation in the OpenAPI document.
func Tags(tags ...string) OperationOption {
	return func(oo *OperationOptions) {
		oo.tags = append(oo.tags, tags...)
	}
}

// Problems documents additional problem responses the [Handler] can
// return, e.g. 404 for operations using [NotFound].
func Problems(statuses ...int) OperationOption {
	return func(oo *OperationOptions) {
		oo.problems = append(oo.problems, statuses...)
	}
}

// OnError configures a custom [ErrorHandler] for an operation.
// If not specified, operations use a [ProblemDetailsErrorHandler].
func OnError(eh ErrorHandler) OperationOption {
	return func(oo *OperationOptions) {
		oo.errHandler = eh
	}
}

// MaxUploadSize limits the size in bytes of a single uploaded file.
// Larger uploads fail with a 413 Request Entity Too Large.
func MaxUploadSize(n int64) OperationOption {
	return func(oo *OperationOptions) {
		oo.maxUploadBytes = n
	}
}

type operation struct {
	name       string
	tracer     trace.Tracer
	requests   metric.Int64Counter
	violations metric.Int64Histogram
	errHandler ErrorHandler
	handler    Handler

	inputs []*schema.Schema
	embed  bool
	output *schema.Schema
	status int

	api            *ApiOptions
	maxUploadBytes int64
}

// Operation registers a [Handler] for the given method and path.
//
// The contract of the operation is checked at registration and Operation
// panics when a path field has no matching path parameter (or the other
// way round), when body fields are mixed with form or file fields, or when
// embedded body inputs share a name.
//
// Example:
//
//	rest.Operation(
//	    http.MethodPost,
//	    rest.BasePath("/person").Segment("new"),
//	    createPerson,
//	    rest.Input(models.Person),
//	    rest.Returns(models.PersonOut),
//	    rest.Status(http.StatusCreated),
//	)
func Operation(method string, path Path, h Handler, opts ...OperationOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		oo := &OperationOptions{
			status:     http.StatusOK,
			errHandler: NewProblemDetailsErrorHandler(),
		}
		for _, opt := range opts {
			opt(oo)
		}

		endpoint := path.String()

		o, err := newOperation(method, path, h, oo)
		if err != nil {
			panic(err)
		}
		o.api = ao

		err = ao.def.AddOperation(method, endpoint, o.spec(oo))
		if err != nil {
			panic(err)
		}

		ao.mux.Method(method, endpoint, otelhttp.WithRouteTag(endpoint, o))
	})
}

// InvalidOperationError is the panic value of [Operation] when the
// declared contract cannot be served.
type InvalidOperationError struct {
	Method string
	Path   string
	Reason string
}

func (e InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %s %s: %s", e.Method, e.Path, e.Reason)
}

func newOperation(method string, path Path, h Handler, oo *OperationOptions) (*operation, error) {
	invalid := func(format string, args ...any) error {
		return InvalidOperationError{
			Method: method,
			Path:   path.String(),
			Reason: fmt.Sprintf(format, args...),
		}
	}

	params := path.Params()
	bound := make(map[string]bool)
	bodies := 0
	forms := 0
	names := make(map[string]bool)
	for _, in := range oo.inputs {
		if in == nil {
			return nil, invalid("input schema must not be nil")
		}

		hasBody := false
		for _, fd := range in.Fields() {
			switch fd.In() {
			case schema.InPath:
				if !slices.Contains(params, fd.WireName()) {
					return nil, invalid("field %s.%s is read from path parameter {%s} which is not in the path", in.Name(), fd.Name(), fd.WireName())
				}
				bound[fd.WireName()] = true
			case schema.InBody:
				hasBody = true
			case schema.InForm, schema.InFile:
				forms++
			}
		}
		if !hasBody {
			continue
		}
		bodies++
		if names[in.Name()] {
			return nil, invalid("more than one body input is named %q", in.Name())
		}
		names[in.Name()] = true
	}
	for _, p := range params {
		if !bound[p] {
			return nil, invalid("path parameter {%s} is not bound to any input field", p)
		}
	}
	if bodies > 0 && forms > 0 {
		return nil, invalid("body fields cannot be mixed with form or file fields")
	}

	meter := otel.Meter("github.com/z5labs/sieve/rest")
	requests, err := meter.Int64Counter(
		"sieve.operation.requests",
		metric.WithDescription("Number of requests dispatched to an operation by outcome."),
	)
	if err != nil {
		return nil, err
	}
	violations, err := meter.Int64Histogram(
		"sieve.operation.violations",
		metric.WithDescription("Number of violations reported by a failed validation."),
	)
	if err != nil {
		return nil, err
	}

	o := &operation{
		name:           method + " " + path.String(),
		tracer:         otel.Tracer("github.com/z5labs/sieve/rest"),
		requests:       requests,
		violations:     violations,
		errHandler:     oo.errHandler,
		handler:        h,
		inputs:         oo.inputs,
		embed:          oo.embed || bodies > 1,
		output:         oo.output,
		status:         oo.status,
		maxUploadBytes: oo.maxUploadBytes,
	}
	return o, nil
}

func (o *operation) uploadLimit() int64 {
	if o.maxUploadBytes > 0 {
		return o.maxUploadBytes
	}
	if o.api != nil && o.api.maxUploadBytes > 0 {
		return o.api.maxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (o *operation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stage := StageReceived
	var err error
	defer func() {
		o.record(ctx, stage, err)
		if err == nil {
			return
		}

		o.errHandler.OnError(ctx, w, err)
	}()
	defer try.Recover(&err)

	stage = StageBinding
	bound, err := o.bind(ctx, r)
	if err != nil {
		return
	}

	stage = StageValidating
	recs, err := o.validate(ctx, bound)
	if err != nil {
		return
	}

	stage = StageInvoking
	out, err := o.invoke(ctx, recs)
	if err != nil {
		return
	}

	stage = StageShaping
	out, err = o.shape(ctx, out)
	if err != nil {
		return
	}

	err = o.writeResponse(ctx, w, out)
	if err != nil {
		return
	}
	stage = StageResponded
}

type boundInput struct {
	vals     schema.Values
	mismatch *schema.Violation
}

func (o *operation) bind(ctx context.Context, r *http.Request) (_ []boundInput, err error) {
	_, span := o.tracer.Start(ctx, "operation.bind")
	defer span.End()
	defer recordSpanError(span, &err)

	req, err := readRequest(r, o.inputs, o.uploadLimit())
	if err != nil {
		return nil, malformedInput(err)
	}

	bound := make([]boundInput, len(o.inputs))
	for i, in := range o.inputs {
		bound[i].vals, bound[i].mismatch = req.values(in, o.embed)
	}
	return bound, nil
}

func (o *operation) validate(ctx context.Context, bound []boundInput) (_ []*schema.Record, err error) {
	spanCtx, span := o.tracer.Start(ctx, "operation.validate")
	defer span.End()
	defer recordSpanError(span, &err)

	var rep schema.Report
	recs := make([]*schema.Record, len(o.inputs))
	for i, in := range o.inputs {
		if bound[i].mismatch != nil {
			rep = append(rep, *bound[i].mismatch)
			continue
		}

		rec, err := in.Validate(bound[i].vals)
		if err == nil {
			recs[i] = rec
			continue
		}

		var inRep schema.Report
		if !errors.As(err, &inRep) {
			return nil, err
		}
		if o.embed {
			inRep = prefixBody(in.Name(), inRep)
		}
		rep = append(rep, inRep...)
	}
	if len(rep) == 0 {
		return recs, nil
	}

	o.violations.Record(spanCtx, int64(len(rep)), metric.WithAttributes(attribute.String("operation", o.name)))
	return nil, validationFailed(rep)
}

func prefixBody(name string, rep schema.Report) schema.Report {
	prefixed := make(schema.Report, len(rep))
	for i, v := range rep {
		if v.Location == schema.InBody {
			v.Field = name + "." + v.Field
		}
		prefixed[i] = v
	}
	return prefixed
}

func (o *operation) invoke(ctx context.Context, recs []*schema.Record) (_ *schema.Record, err error) {
	spanCtx, span := o.tracer.Start(ctx, "operation.invoke")
	defer span.End()
	defer recordSpanError(span, &err)
	defer func() {
		if err == nil {
			return
		}

		var pd problemDetailMarker
		if errors.As(err, &pd) {
			err = pd
			return
		}
		var hrw HttpResponseWriter
		if errors.As(err, &hrw) {
			err = hrw.(error)
			return
		}
		err = handlerFailed(err)
	}()
	defer try.Recover(&err)

	return o.handler.Handle(spanCtx, recs)
}

func (o *operation) shape(ctx context.Context, rec *schema.Record) (_ *schema.Record, err error) {
	_, span := o.tracer.Start(ctx, "operation.shape")
	defer span.End()
	defer recordSpanError(span, &err)

	if o.output == nil {
		return rec, nil
	}
	if rec == nil {
		return nil, shapeFailed(errors.New("handler returned no record"))
	}

	shaped, err := schema.Shape(o.output, rec)
	if err != nil {
		return nil, shapeFailed(err)
	}
	return shaped, nil
}

func (o *operation) writeResponse(ctx context.Context, w http.ResponseWriter, rec *schema.Record) (err error) {
	_, span := o.tracer.Start(ctx, "operation.writeResponse")
	defer span.End()
	defer recordSpanError(span, &err)

	if o.status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.status)
	_, err = w.Write(append(b, '\n'))
	return err
}

func (o *operation) record(ctx context.Context, stage Stage, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", o.name),
		attribute.String("outcome", "success"),
		attribute.String("stage", stage.String()),
	}
	if err != nil {
		attrs = []attribute.KeyValue{
			attribute.String("operation", o.name),
			attribute.String("outcome", failureKind(err)),
			attribute.String("stage", StageFailed.String()),
			attribute.String("failed_at", stage.String()),
		}
	}

	o.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func failureKind(err error) string {
	var (
		malformed  MalformedInputError
		validation ValidationError
		notFound   NotFoundError
		handler    HandlerError
		shape      ShapeError
	)
	switch {
	case errors.As(err, &malformed):
		return "malformed_input"
	case errors.As(err, &validation):
		return "validation_error"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &handler):
		return "handler_error"
	case errors.As(err, &shape):
		return "shaping_contract_error"
	default:
		return "business_error"
	}
}

func recordSpanError(span trace.Span, err *error) {
	if *err == nil {
		return
	}
	span.RecordError(*err)
	span.SetStatus(codes.Error, (*err).Error())
}
