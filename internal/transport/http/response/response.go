package response

type Resp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK is a success envelope; msg may be empty.
func OK(msg string, data any) Resp {
	return Resp{Success: true, Message: msg, Data: data}
}

// Error builds a failure envelope for an HTTP status, defaulting the message from CodeMsgMap.
func Error(status int, customMsg string) Resp {
	msg := CodeMsgMap[status]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Success: false, Message: msg}
}
