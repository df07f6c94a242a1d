package autodoc

import (
	"github.com/sirupsen/logrus"

	"autodocstring/internal/cache"
	"autodocstring/internal/config"
	"autodocstring/internal/docstring"
	"autodocstring/internal/extractor"
)

// Engine documents Python declarations according to a Config.
type Engine struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	styles *cache.StyleCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for progress and merge diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStyleCache shares a style cache between engines.
func WithStyleCache(c *cache.StyleCache) Option {
	return func(e *Engine) {
		e.styles = c
	}
}

// NewEngine creates an engine. A nil cfg means config.Default(). Unless a
// cache is supplied, one is sized from the config; a zero cache size turns
// caching off.
func NewEngine(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg: cfg,
		log: logrus.StandardLogger(),
	}
	if cfg.CacheSize > 0 {
		e.styles = cache.NewStyleCache(cfg.CacheSize, cfg.CacheTTL)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the settings the engine runs with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Fresh is what the source currently says about a declaration. A nil entry
// list leaves the matching section alone, an empty one archives it.
type Fresh struct {
	Kind extractor.Kind
	Name string

	Params     []*docstring.Parameter
	Attributes []*docstring.Parameter
	Exceptions []*docstring.Parameter

	Keyword          docstring.ReturnKeyword
	ReturnAnnotation string

	// New marks a docstring that is being created. It gets the summary
	// placeholder and, for functions other than __init__, placeholder
	// return documentation.
	New bool
}

// MergeAndFormat reconciles doc with fresh and renders it for a body
// indented by indent.
func (e *Engine) MergeAndFormat(doc *docstring.Docstring, fresh *Fresh, indent string) string {
	if fresh.Params != nil {
		doc.UpdateParameters(fresh.Params)
	}
	if fresh.Exceptions != nil {
		doc.UpdateExceptions(fresh.Exceptions, e.cfg.SortExceptions)
	}
	if fresh.Attributes != nil {
		sorted := e.cfg.SortClassAttributes
		if fresh.Kind == extractor.KindModule {
			sorted = e.cfg.SortModuleAttributes
		}
		doc.UpdateAttributes(fresh.Attributes, sorted)
	}
	if fresh.Kind == extractor.KindFunction {
		doc.UpdateReturns(fresh.Keyword, fresh.ReturnAnnotation)
	}

	if fresh.New {
		summary := e.cfg.DefaultSummary
		if e.cfg.WantsNewline(doc.Style()) {
			summary = "\n" + summary
		}
		doc.SetSummary(summary)

		if fresh.Kind == extractor.KindFunction && fresh.Name != "__init__" {
			typ := e.cfg.DefaultType
			if fresh.ReturnAnnotation != "" {
				typ = fresh.ReturnAnnotation
			}
			doc.AddDummyReturns(fresh.Keyword, e.cfg.DefaultReturnName, typ, e.cfg.DefaultDescription)
		}
	}
	return doc.Format(indent)
}

// FreshDeclaration gathers the fresh entries for a declaration found by
// extractor.FindDeclarations.
func (e *Engine) FreshDeclaration(d extractor.Declaration) (*Fresh, error) {
	switch d.Kind {
	case extractor.KindModule:
		return e.FreshModule(d.Attributes), nil
	case extractor.KindClass:
		cls, err := extractor.ParseClass(d.Header)
		if err != nil {
			return nil, err
		}
		f := e.FreshClass(d.Attributes)
		f.Name = cls.Name
		return f, nil
	default:
		fn, err := extractor.ParseFunction(d.Header)
		if err != nil {
			return nil, err
		}
		return e.FreshFunction(fn, d.Raises, d.Keyword), nil
	}
}

// FreshFunction builds the fresh entries of a function from its parsed
// header and body scans.
func (e *Engine) FreshFunction(fn *extractor.Function, raises []string, kw extractor.Keyword) *Fresh {
	f := &Fresh{
		Kind:    extractor.KindFunction,
		Name:    fn.Name,
		Keyword: returnKeyword(kw, fn.ReturnAnnotation),
	}
	if f.Keyword == docstring.Return && fn.ReturnAnnotation != "None" {
		f.ReturnAnnotation = fn.ReturnAnnotation
	}

	if e.cfg.InspectFunctionParameters {
		f.Params = make([]*docstring.Parameter, 0, len(fn.Params))
		for i, p := range fn.Params {
			param := docstring.NewParameter(p.Name, e.paramType(p), e.cfg.DefaultDescription, i)
			param.Annotated = p.Annotation != ""
			f.Params = append(f.Params, param)
		}
	}
	if e.cfg.InspectExceptions {
		f.Exceptions = make([]*docstring.Parameter, 0, len(raises))
		for i, name := range raises {
			f.Exceptions = append(f.Exceptions, docstring.NewParameter(name, "", e.cfg.DefaultDescription, i))
		}
	}
	return f
}

// FreshClass builds the fresh entries of a class from its attribute scan.
func (e *Engine) FreshClass(attrs []extractor.Attribute) *Fresh {
	f := &Fresh{Kind: extractor.KindClass}
	if e.cfg.InspectClassAttributes {
		f.Attributes = e.attributes(attrs)
	}
	return f
}

// FreshModule builds the fresh entries of a module from its attribute scan.
func (e *Engine) FreshModule(attrs []extractor.Attribute) *Fresh {
	f := &Fresh{Kind: extractor.KindModule}
	if e.cfg.InspectModuleAttributes {
		f.Attributes = e.attributes(attrs)
	}
	return f
}

func (e *Engine) attributes(attrs []extractor.Attribute) []*docstring.Parameter {
	out := make([]*docstring.Parameter, 0, len(attrs))
	for i, a := range attrs {
		typ := a.Type
		if typ == "" {
			typ = e.cfg.DefaultType
		}
		p := docstring.NewParameter(a.Name, typ, e.cfg.DefaultDescription, i)
		p.Annotated = a.Annotated
		out = append(out, p)
	}
	return out
}

// paramType is the type written for a new parameter entry: the annotation,
// else the type of the default, else the placeholder. Variadic parameters
// are left untyped unless annotated.
func (e *Engine) paramType(p extractor.Param) string {
	var typ string
	switch {
	case p.Annotation != "":
		typ = p.Annotation
	case p.VarArg || p.KwArg:
		return ""
	case p.DefaultType != "":
		typ = p.DefaultType
	default:
		typ = e.cfg.DefaultType
	}
	if p.Optional && e.cfg.OptionalTag != "" {
		if typ == "" {
			return e.cfg.OptionalTag
		}
		typ += ", " + e.cfg.OptionalTag
	}
	return typ
}

// returnKeyword maps the body scan to a merge keyword. A body that neither
// returns nor yields but declares a return type, as abstract methods do,
// counts as returning.
func returnKeyword(kw extractor.Keyword, annotation string) docstring.ReturnKeyword {
	switch kw {
	case extractor.KeywordReturn:
		return docstring.Return
	case extractor.KeywordYield:
		return docstring.Yield
	}
	switch annotation {
	case "", "None", "NoReturn", "Never":
		return docstring.NoReturn
	}
	return docstring.Return
}
