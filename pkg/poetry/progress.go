package poetry

// ProgressSink receives a label and total count when a long-running phase
// begins, then increment and finish signals as it advances. Sinks are
// purely observational; no core state ever depends on one.
type ProgressSink interface {
	Begin(label string, total int)
	Increment()
	Finish()
}

// nopProgress is the default sink.
type nopProgress struct{}

func (nopProgress) Begin(string, int) {}
func (nopProgress) Increment()        {}
func (nopProgress) Finish()           {}
