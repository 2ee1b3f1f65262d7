package analyze

// Context is the carried AnalyzerContext record (spec §4.3): is_async,
// return_type, and local_types (name -> host type, "" meaning bound but
// untyped). A name's presence as a key is what makes it "bound in a local
// scope" for symbol resolution; its value is what the primitive-op
// specializer consults. All updates are copy-on-write so a Context can be
// threaded through sibling branches of analysis (two let bindings, two if
// branches) without one seeing the other's locals.
type Context struct {
	IsAsync    bool
	ReturnType string
	locals     map[string]string
}

// NewContext returns the root analyzer context for a top-level form: not
// async, no return type constraint, no locals bound.
func NewContext() *Context {
	return &Context{locals: map[string]string{}}
}

// WithLocalType returns a new Context identical to c except that name is
// now bound with host type typ ("" if its type is not statically known).
func (c *Context) WithLocalType(name, typ string) *Context {
	next := make(map[string]string, len(c.locals)+1)
	for k, v := range c.locals {
		next[k] = v
	}
	next[name] = typ
	cp := *c
	cp.locals = next
	return &cp
}

// WithAsync returns a new Context with IsAsync set.
func (c *Context) WithAsync(async bool) *Context {
	cp := *c
	cp.IsAsync = async
	return &cp
}

// WithReturnType returns a new Context with ReturnType set.
func (c *Context) WithReturnType(t string) *Context {
	cp := *c
	cp.ReturnType = t
	return &cp
}

// IsLocal reports whether name is bound in this context's lexical scope.
func (c *Context) IsLocal(name string) bool {
	_, ok := c.locals[name]
	return ok
}

// LocalType returns the host type of a locally bound name, or "" if it is
// unbound or its type is unknown.
func (c *Context) LocalType(name string) string {
	return c.locals[name]
}
