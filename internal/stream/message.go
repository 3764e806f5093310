package stream

// Msg is the envelope for control messages in both directions.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Frame carries one field in row-major order.
type Frame struct {
	Type   string    `json:"type"`
	Step   int       `json:"step"`
	Time   float64   `json:"time"`
	N      int       `json:"n"`
	Values []float64 `json:"values"`
}

// Done is sent after the last frame of a completed or stopped run.
type Done struct {
	Type  string `json:"type"`
	Steps int    `json:"steps"`
}

const (
	TypeStart   = "start"
	TypeStop    = "stop"
	TypeStarted = "started"
	TypeStopped = "stopped"
	TypeFrame   = "frame"
	TypeDone    = "done"
	TypeError   = "error"
)
