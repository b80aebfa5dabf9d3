package cli

// Convention names the calling shape a handler was registered with.
type Convention int

const (
	// ConventionContext handlers take only the context.
	ConventionContext Convention = iota
	// ConventionApp handlers take the owning application value and the context.
	ConventionApp
	// ConventionAppContext handlers take a context that embeds the
	// application value.
	ConventionAppContext
	// ConventionInject handlers take values resolved by extractors.
	ConventionInject
)

func (c Convention) String() string {
	switch c {
	case ConventionApp:
		return "app"
	case ConventionAppContext:
		return "app-context"
	case ConventionInject:
		return "inject"
	default:
		return "context"
	}
}

// Handler is the single canonical shape the dispatcher invokes. The
// adapters below wrap the other conventions into it; each handler picks its
// convention once, when it is built.
type Handler interface {
	Convention() Convention
	Handle(ctx *Context) error
}

// HandlerFunc is a context-only handler.
type HandlerFunc func(ctx *Context) error

func (HandlerFunc) Convention() Convention       { return ConventionContext }
func (f HandlerFunc) Handle(ctx *Context) error { return f(ctx) }

type appHandler[A any] struct {
	app A
	fn  func(app A, ctx *Context) error
}

func (appHandler[A]) Convention() Convention { return ConventionApp }

func (h appHandler[A]) Handle(ctx *Context) error { return h.fn(h.app, ctx) }

// WithApp binds a handler that receives the application value alongside the
// context. A is typically a pointer so the handler can mutate it.
func WithApp[A any](app A, fn func(app A, ctx *Context) error) Handler {
	return appHandler[A]{app: app, fn: fn}
}

// AppContext is a Context that also carries the application value.
type AppContext[A any] struct {
	*Context
	App A
}

type appContextHandler[A any] struct {
	app A
	fn  func(ctx *AppContext[A]) error
}

func (appContextHandler[A]) Convention() Convention { return ConventionAppContext }

func (h appContextHandler[A]) Handle(ctx *Context) error {
	return h.fn(&AppContext[A]{Context: ctx, App: h.app})
}

// WithAppContext binds a handler that receives a context embedding app.
func WithAppContext[A any](app A, fn func(ctx *AppContext[A]) error) Handler {
	return appContextHandler[A]{app: app, fn: fn}
}

// injectHandler resolves every extractor before the body runs; the first
// failure aborts the call.
type injectHandler func(ctx *Context) error

func (injectHandler) Convention() Convention       { return ConventionInject }
func (h injectHandler) Handle(ctx *Context) error { return h(ctx) }

// Inject0 wraps a handler that needs nothing from the context.
func Inject0(fn func() error) Handler {
	return injectHandler(func(*Context) error { return fn() })
}

// Inject1 wraps a one-parameter handler whose argument is extracted.
func Inject1[T1 any](e1 Extractor[T1], fn func(T1) error) Handler {
	return injectHandler(func(ctx *Context) error {
		v1, err := e1.Extract(ctx)
		if err != nil {
			return err
		}
		return fn(v1)
	})
}

// Inject2 wraps a two-parameter handler.
func Inject2[T1, T2 any](e1 Extractor[T1], e2 Extractor[T2], fn func(T1, T2) error) Handler {
	return injectHandler(func(ctx *Context) error {
		v1, err := e1.Extract(ctx)
		if err != nil {
			return err
		}
		v2, err := e2.Extract(ctx)
		if err != nil {
			return err
		}
		return fn(v1, v2)
	})
}

// Inject3 wraps a three-parameter handler.
func Inject3[T1, T2, T3 any](e1 Extractor[T1], e2 Extractor[T2], e3 Extractor[T3], fn func(T1, T2, T3) error) Handler {
	return injectHandler(func(ctx *Context) error {
		v1, err := e1.Extract(ctx)
		if err != nil {
			return err
		}
		v2, err := e2.Extract(ctx)
		if err != nil {
			return err
		}
		v3, err := e3.Extract(ctx)
		if err != nil {
			return err
		}
		return fn(v1, v2, v3)
	})
}

// Inject4 wraps a four-parameter handler.
func Inject4[T1, T2, T3, T4 any](e1 Extractor[T1], e2 Extractor[T2], e3 Extractor[T3], e4 Extractor[T4], fn func(T1, T2, T3, T4) error) Handler {
	return injectHandler(func(ctx *Context) error {
		v1, err := e1.Extract(ctx)
		if err != nil {
			return err
		}
		v2, err := e2.Extract(ctx)
		if err != nil {
			return err
		}
		v3, err := e3.Extract(ctx)
		if err != nil {
			return err
		}
		v4, err := e4.Extract(ctx)
		if err != nil {
			return err
		}
		return fn(v1, v2, v3, v4)
	})
}
