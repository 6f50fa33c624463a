package env

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/k8s"
	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/logging"
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string) bool

// Env is the process-wide shell state: the active context and namespace,
// the selected object, the rows of the last successful listing and the
// per-context client cache.
//
// Commands run one at a time, so Env is mutated by at most one command at
// once. The mutex only guards readers running outside that path, such as
// the prompt and completion.
type Env struct {
	kubeConfig *k8s.KubeConfig
	clients    *k8s.ClientCache
	settings   *config.Settings
	paths      config.Paths

	errOut  io.Writer
	confirm ConfirmFunc
	metrics *instrumentation.Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	context   string
	namespace string
	selection kobj.Handle
	rows      []kobj.Handle
	listed    bool
}

// Option configures an Env.
type Option func(*Env)

// WithErrorWriter sets the user-visible error sink (default os.Stderr).
func WithErrorWriter(w io.Writer) Option {
	return func(e *Env) { e.errOut = w }
}

// WithConfirm sets the confirmation hook used by destructive commands.
func WithConfirm(fn ConfirmFunc) Option {
	return func(e *Env) { e.confirm = fn }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(e *Env) { e.metrics = m }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Env) { e.logger = l }
}

// WithClock replaces time.Now, used for ages.
func WithClock(now func() time.Time) Option {
	return func(e *Env) { e.now = now }
}

// New returns an Env on the kubeconfig's current context and that
// context's default namespace.
func New(cfg *k8s.KubeConfig, factory k8s.ClientFactory, settings *config.Settings, paths config.Paths, opts ...Option) *Env {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	e := &Env{
		kubeConfig: cfg,
		clients:    k8s.NewClientCache(factory),
		settings:   settings,
		paths:      paths,
		errOut:     os.Stderr,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.confirm == nil {
		e.confirm = StdinConfirm(os.Stdin, e.errOut)
	}

	e.context = cfg.CurrentContext()
	e.namespace = cfg.ContextNamespace(e.context)
	return e
}

// StdinConfirm returns a ConfirmFunc that reads a y/n answer from r.
func StdinConfirm(r io.Reader, w io.Writer) ConfirmFunc {
	reader := bufio.NewReader(r)
	return func(question string) bool {
		_, _ = fmt.Fprintf(w, "%s [y/N] ", question)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// Context returns the active kubeconfig context.
func (e *Env) Context() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.context
}

// Namespace returns the active namespace.
func (e *Env) Namespace() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.namespace
}

// Contexts returns every context defined in kubeconfig.
func (e *Env) Contexts() []string {
	return e.kubeConfig.Contexts()
}

// ContextNamespace returns the default namespace of a context.
func (e *Env) ContextNamespace(name string) string {
	return e.kubeConfig.ContextNamespace(name)
}

// KubeConfig returns the loaded kubeconfig.
func (e *Env) KubeConfig() *k8s.KubeConfig { return e.kubeConfig }

// Settings returns the mutable application settings.
func (e *Env) Settings() *config.Settings { return e.settings }

// Paths returns the on-disk locations.
func (e *Env) Paths() config.Paths { return e.paths }

// Logger returns the diagnostics logger.
func (e *Env) Logger() *slog.Logger { return e.logger }

// Metrics returns the metrics recorder, which may be nil.
func (e *Env) Metrics() *instrumentation.Metrics { return e.metrics }

// Now returns the current time from the Env's clock.
func (e *Env) Now() time.Time { return e.now() }

// ErrWriter returns the user-visible error sink.
func (e *Env) ErrWriter() io.Writer { return e.errOut }

// Reportf writes one message to the error sink.
func (e *Env) Reportf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = io.WriteString(e.errOut, msg)
}

// Confirm asks the user a yes/no question through the confirmation hook.
func (e *Env) Confirm(question string) bool {
	return e.confirm(question)
}

// SetContext switches to another kubeconfig context. The namespace resets
// to the context's default, and the selection and rows are dropped because
// they belong to the previous cluster.
func (e *Env) SetContext(name string) error {
	if !e.kubeConfig.HasContext(name) {
		return fmt.Errorf("%w %q", ErrUnknownContext, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.context = name
	e.namespace = e.kubeConfig.ContextNamespace(name)
	e.selection = kobj.Handle{}
	e.rows = nil
	e.listed = false

	e.logger.Debug("context switched", logging.Context(name), logging.Namespace(e.namespace))
	return nil
}

// SetNamespace switches the active namespace. When it changes, the rows are
// dropped, and so is the selection unless it is cluster-scoped.
func (e *Env) SetNamespace(name string) error {
	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", name, strings.Join(errs, "; "))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if name == e.namespace {
		return nil
	}
	e.namespace = name
	if e.selection.HasNamespace() {
		e.selection = kobj.Handle{}
	}
	e.rows = nil
	e.listed = false
	return nil
}

// Client returns the client for the active context, creating it on first use.
func (e *Env) Client() (kubernetes.Interface, error) {
	return e.clients.Get(e.Context())
}

// ClientCached reports whether the active context already has a client.
func (e *Env) ClientCached() bool {
	return e.clients.Cached(e.Context())
}

// ReplaceRows installs the rows of a successful listing, in displayed order.
func (e *Env) ReplaceRows(rows []kobj.Handle) {
	cp := make([]kobj.Handle, len(rows))
	copy(cp, rows)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = cp
	e.listed = true
}

// Rows returns a copy of the current rows.
func (e *Env) Rows() []kobj.Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make([]kobj.Handle, len(e.rows))
	copy(cp, e.rows)
	return cp
}

// HasListing reports whether a listing has succeeded since the last reset.
func (e *Env) HasListing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.listed
}

// ResolveRow returns the handle displayed at 1-based index.
func (e *Env) ResolveRow(index int) (kobj.Handle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.listed {
		return kobj.Handle{}, ErrNoListing
	}
	if index < 1 || index > len(e.rows) {
		return kobj.Handle{}, &NoSuchRowError{Index: index, Len: len(e.rows)}
	}
	return e.rows[index-1], nil
}

// Select makes h the current object.
func (e *Env) Select(h kobj.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = h
}

// SelectRow selects the handle at a 1-based row index.
func (e *Env) SelectRow(index int) (kobj.Handle, error) {
	h, err := e.ResolveRow(index)
	if err != nil {
		return kobj.Handle{}, err
	}
	e.Select(h)
	return h, nil
}

// ClearSelection drops the current object.
func (e *Env) ClearSelection() {
	e.Select(kobj.Handle{})
}

// Current returns the selected object, if any.
func (e *Env) Current() (kobj.Handle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection, !e.selection.IsZero()
}

// Prompt renders "[context][namespace][selection] > ".
func (e *Env) Prompt() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sel := "none"
	if !e.selection.IsZero() {
		sel = e.selection.Name
	}
	return fmt.Sprintf("[%s][%s][%s] > ", e.context, e.namespace, sel)
}

// RunOnContext runs fn against the active context's client. Failures,
// including a cancelled ctx, are reported once to the error sink and
// yield ok=false; callers never see the raw error.
func RunOnContext[T any](ctx context.Context, e *Env, operation, resource string, fn func(context.Context, kubernetes.Interface) (T, error)) (T, bool) {
	var zero T

	kubeContext, namespace := e.Context(), e.Namespace()
	logger := logging.WithOperation(e.logger, operation).With(
		logging.Context(kubeContext),
		logging.Namespace(namespace),
		logging.ResourceType(resource))

	client, err := e.Client()
	if err != nil {
		logger.Debug("client unavailable", logging.SanitizedErr(err))
		e.Reportf("cannot connect to context %q: %v", kubeContext, err)
		return zero, false
	}

	if timeout := e.settings.RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := instrumentation.StartK8sSpan(ctx, operation, kubeContext, namespace,
		attribute.String(instrumentation.SpanAttrResourceType, resource))
	defer span.End()

	start := time.Now()
	result, err := fn(ctx, client)
	if err == nil {
		err = ctx.Err()
	}
	elapsed := time.Since(start)

	if err != nil {
		e.metrics.RecordK8sOperation(ctx, kubeContext, operation, resource, instrumentation.StatusError, elapsed)
		instrumentation.SetSpanError(span, err)
		logger.Debug("request failed", logging.Duration(elapsed), logging.SanitizedErr(err))
		e.Reportf("%s", DescribeError(err))
		return zero, false
	}

	e.metrics.RecordK8sOperation(ctx, kubeContext, operation, resource, instrumentation.StatusSuccess, elapsed)
	instrumentation.SetSpanSuccess(span)
	logger.Debug("request completed", logging.Duration(elapsed))
	return result, true
}
