package render

// ResourceError marks a failure to produce something drawable: a
// texture that would not synthesize, a surface with impossible
// dimensions. The render loop treats it as non-fatal, logging the
// frame and skipping the draw rather than exiting.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return "render resource " + e.Op + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }
