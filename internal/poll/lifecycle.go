package poll

// Status is the fetch state of a view: idle → loading → {ready, failed}.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the fetch state of one controller. The loading state is
// only entered before the first fetch settles; later ticks move straight
// between ready and failed. It is not safe for concurrent use on its own.
type Lifecycle struct {
	status  Status
	settled bool
	err     error
}

// Begin marks a fetch as started.
func (l *Lifecycle) Begin() {
	if !l.settled {
		l.status = StatusLoading
	}
}

func (l *Lifecycle) Succeed() {
	l.settled = true
	l.status = StatusReady
	l.err = nil
}

func (l *Lifecycle) Fail(err error) {
	l.settled = true
	l.status = StatusFailed
	l.err = err
}

func (l *Lifecycle) Status() Status { return l.status }
func (l *Lifecycle) Err() error     { return l.err }
func (l *Lifecycle) Loading() bool  { return l.status == StatusLoading }
func (l *Lifecycle) Settled() bool  { return l.settled }
