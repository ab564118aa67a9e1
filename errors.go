package alerthook

// ConfigurationError is returned synchronously from Builder calls when a
// required setting is missing or invalid. Configuration mistakes are
// programmer errors and are meant to be caught at startup.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return "invalid sender configuration: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid sender configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DispatchError describes an alert that could not be sent. It is only
// ever reported through the Diagnostic side channel; Send never returns
// or panics with it.
type DispatchError struct {
	Reason string
}

func (e *DispatchError) Error() string {
	return "alert dropped: " + e.Reason
}
