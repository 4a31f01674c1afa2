package viewer

// Actions a page can send.
const (
	ActionList   = "list"
	ActionCreate = "create"
	ActionSelect = "select"
	ActionInsert = "insert"
	ActionRemove = "remove"
	ActionSearch = "search"
	ActionDelete = "delete"
)

// Event kinds pushed to a page. Each event replaces the named part of the
// page wholesale.
const (
	KindList       = "list"
	KindSelected   = "selected"
	KindView       = "view"
	KindBanner     = "banner"
	KindWarn       = "warn"
	KindClearInput = "clear-input"
)

// Request is one user action read from a page.
type Request struct {
	Action  string `codec:"action"`
	Value   string `codec:"value"`
	Variant string `codec:"variant"`
	ID      string `codec:"id"`
	// Confirmed is set by the page once the user accepted the delete
	// prompt.
	Confirmed bool `codec:"confirmed"`
}

// Event is one display update written to a page.
type Event struct {
	Kind string `codec:"kind"`
	HTML string `codec:"html"`
	Text string `codec:"text"`
}
