package extractor

// Param is one formal parameter of a function declaration.
type Param struct {
	Name        string `yaml:"name"` // with a leading * or ** for varargs
	Default     string `yaml:"default,omitempty"`
	DefaultType string `yaml:"default_type,omitempty"` // inferred from Default, empty when unknown
	Annotation  string `yaml:"annotation,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
	VarArg      bool   `yaml:"vararg,omitempty"`
	KwArg       bool   `yaml:"kwarg,omitempty"`
	KeywordOnly bool   `yaml:"keyword_only,omitempty"`
}

// Function is a parsed `def` header.
type Function struct {
	Name             string  `yaml:"name"`
	Async            bool    `yaml:"async,omitempty"`
	Params           []Param `yaml:"params"`
	ReturnAnnotation string  `yaml:"return_annotation,omitempty"`
}

// Class is a parsed `class` header.
type Class struct {
	Name  string   `yaml:"name"`
	Bases []string `yaml:"bases,omitempty"`
}

// Attribute is a name assigned in a class or module body.
type Attribute struct {
	Name      string
	Type      string
	Annotated bool
}

// Keyword is the control-flow keyword a function hands results back with.
type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordReturn
	KeywordYield
)

// Kind is the kind of a declaration.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	}
	return "module"
}

// Declaration is a documentable unit found in a source file. Offsets are
// byte offsets into the source it was found in.
type Declaration struct {
	Kind Kind
	Name string
	// Header is the declaration text from `def`/`class` up to and including
	// the colon that opens the body.
	Header    string
	Start     int
	HeaderEnd int
	End       int
	StartLine int // 0-based
	EndLine   int
	Indent    string

	Raises     []string
	Keyword    Keyword
	Attributes []Attribute
}

// Contains reports whether the 0-based line falls inside the declaration.
func (d Declaration) Contains(line int) bool {
	return line >= d.StartLine && line <= d.EndLine
}
