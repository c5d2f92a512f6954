package macro

// Severity separates diagnostics that dropped a definition from those that
// only resolved a conflict.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic describes one problem met while registering a definition.
// Kind is one of the package sentinels and is what errors.Is matches against.
type Diagnostic struct {
	Severity   Severity
	Kind       error
	Identifier string
	Token      string
	Provenance Provenance
	Message    string
}

func (d Diagnostic) Error() string { return d.Message }
func (d Diagnostic) Unwrap() error { return d.Kind }

// Reporter receives diagnostics as they happen. Reporting must not fail:
// the table keeps going regardless of what the reporter does with them.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Recorder keeps every diagnostic it receives, in order, and optionally
// forwards them to Next.
type Recorder struct {
	Diagnostics []Diagnostic
	Next        Reporter
}

func (r *Recorder) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	if r.Next != nil {
		r.Next.Report(d)
	}
}

// Errors returns the number of error-severity diagnostics recorded.
func (r *Recorder) Errors() int { return r.count(SeverityError) }

// Warnings returns the number of warning-severity diagnostics recorded.
func (r *Recorder) Warnings() int { return r.count(SeverityWarning) }

func (r *Recorder) count(s Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}
