package widget

type State int

const (
	Idle State = iota
	Loading
	RenderedList
	RenderedDetail
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case RenderedList:
		return "rendered(list)"
	case RenderedDetail:
		return "rendered(detail)"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
