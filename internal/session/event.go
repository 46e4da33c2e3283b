package session

// Event is a browser event reported by the host page. Value and the
// selection fields carry the state of the target control at the time the
// event fired and are applied before listeners run. Selection offsets count
// UTF-16 code units, as the browser reports them.
type Event struct {
	Node           string  `json:"node"`
	Type           string  `json:"type"`
	Value          *string `json:"value,omitempty"`
	SelectionStart *int    `json:"selectionStart,omitempty"`
	SelectionEnd   *int    `json:"selectionEnd,omitempty"`
}
