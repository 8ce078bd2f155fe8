// internal/domain/realtime/types.go
package realtime

import "encoding/json"

// FrameType tags each frame pushed over a live channel.
type FrameType string

const (
	FrameTypeConnected    FrameType = "connected"
	FrameTypeNotification FrameType = "notification"
)

// Frame is the wire format for server-to-client pushes.
type Frame struct {
	Type    FrameType   `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ConnectedFrame is the single acknowledgement sent after a successful
// handshake.
func ConnectedFrame() *Frame {
	return &Frame{
		Type:    FrameTypeConnected,
		Message: "Connected to notifications",
	}
}

// NotificationFrame wraps a notification payload for delivery.
func NotificationFrame(data interface{}) *Frame {
	return &Frame{
		Type: FrameTypeNotification,
		Data: data,
	}
}

func (f *Frame) ToJSON() ([]byte, error) {
	return json.Marshal(f)
}

func ParseFrame(data []byte) (*Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return &f, err
}
