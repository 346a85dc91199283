package furhat

const (
	typeSpeakText      = "request.speak.text"
	typeGestureStart   = "request.gesture.start"
	typeLEDSet         = "request.led.set"
	typeAttendUser     = "request.attend.user"
	typeAttendLocation = "request.attend.location"

	typeSpeakEnd = "response.speak.end"
)

type speakTextRequest struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Abort bool   `json:"abort"`
}

type gestureStartRequest struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
	Duration  float64 `json:"duration"`
}

type ledSetRequest struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

type attendUserRequest struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type attendLocationRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

type incomingMessage struct {
	Type string `json:"type"`
}
