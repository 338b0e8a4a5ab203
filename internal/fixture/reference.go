package fixture

// Reference identifies a single fixture to apply: either a script on disk or
// a zero-argument method on the test class. Variants are plain comparable
// structs so the applied log can deduplicate by value.
type Reference interface {
	// Describe returns the fixture identity used in error messages and reports
	Describe() string
}

// PathReference is a fixture script. The identifier is kept as declared;
// resolution to an absolute path happens at apply time.
type PathReference struct {
	ID string
}

func (r PathReference) Describe() string {
	return r.ID
}

// CallableReference is a zero-argument method on the test's own class
type CallableReference struct {
	Class  string
	Method string
}

func (r CallableReference) Describe() string {
	if r.Class == "" || r.Method == "" {
		return "callback"
	}
	return r.Class + "::" + r.Method
}

// TestMeta carries the fixture declarations of one test case, as extracted
// from its annotations.
type TestMeta struct {
	Class          string          // Fully qualified test class name
	MethodFixtures []string        // Fixture ids declared on the test method
	ClassFixtures  []string        // Fixture ids declared on the test class
	ZeroArgMethods map[string]bool // Methods of the class callable with no arguments
}
