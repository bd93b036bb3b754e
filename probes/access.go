package probes

// PathAccess describes what the current process may do with a path.
type PathAccess struct {
	Exists   bool `json:"exists"`
	Readable bool `json:"readable"`
	Writable bool `json:"writable"`
}

// AccessChecker reports access to a filesystem path for the current process.
type AccessChecker interface {
	Access(path string) PathAccess
}

// AccessFunc adapts a function to AccessChecker.
type AccessFunc func(path string) PathAccess

// Access implements AccessChecker.
func (f AccessFunc) Access(path string) PathAccess {
	return f(path)
}
