package cli

// Middleware hooks run around handler invocation. Before hooks run in
// declaration order; after hooks run in reverse order and only when the
// handler succeeded.
type Middleware interface {
	// Before runs prior to the handler. An error aborts the invocation.
	Before(ctx *Context) error
	// After runs once the handler returned without error.
	After(ctx *Context) error
}

// Hooks builds a Middleware from optional functions.
type Hooks struct {
	BeforeFunc func(ctx *Context) error
	AfterFunc  func(ctx *Context) error
}

func (h Hooks) Before(ctx *Context) error {
	if h.BeforeFunc == nil {
		return nil
	}
	return h.BeforeFunc(ctx)
}

func (h Hooks) After(ctx *Context) error {
	if h.AfterFunc == nil {
		return nil
	}
	return h.AfterFunc(ctx)
}

// pipeline runs before hooks, the handler and after hooks. Before-hook
// edits to flags and positionals carry into the handler and after hooks;
// extensions reach the handler only.
func pipeline(base *Context, mws []Middleware, h Handler) error {
	before := base.derive()
	for i, mw := range mws {
		if err := mw.Before(before); err != nil {
			base.logger.Debug("middleware before hook failed", "index", i, "error", err)
			return err
		}
	}

	call := before.derive()
	call.extensions = before.extensions
	if err := h.Handle(call); err != nil {
		base.logger.Debug("handler failed", "convention", h.Convention().String(), "error", err)
		return err
	}

	after := before.derive()
	for i := len(mws) - 1; i >= 0; i-- {
		if err := mws[i].After(after); err != nil {
			base.logger.Debug("middleware after hook failed", "index", i, "error", err)
			return err
		}
	}
	return nil
}
