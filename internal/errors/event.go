package errors

// EventPayload converts an error into the payload of a user-visible
// `error` event. Internal causes are not leaked: only the code and the
// user-facing message cross the wire.
func EventPayload(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	return map[string]interface{}{
		"code":    GetCode(err).String(),
		"message": GetMessage(err),
	}
}
