package gemini

// Status is the response status class the gateway acts on.
type Status int

const (
	StatusOther Status = iota
	StatusInput
	StatusSensitiveInput
	StatusSuccess
	StatusTemporaryRedirect
	StatusPermanentRedirect
)

// StatusFromCode maps a two-digit response code to its Status.
func StatusFromCode(code int) Status {
	switch {
	case code == 10:
		return StatusInput
	case code == 11:
		return StatusSensitiveInput
	case code >= 20 && code <= 29:
		return StatusSuccess
	case code == 31:
		return StatusPermanentRedirect
	case code >= 30 && code <= 39:
		return StatusTemporaryRedirect
	default:
		return StatusOther
	}
}

func (s Status) String() string {
	switch s {
	case StatusInput:
		return "Input"
	case StatusSensitiveInput:
		return "SensitiveInput"
	case StatusSuccess:
		return "Success"
	case StatusTemporaryRedirect:
		return "TemporaryRedirect"
	case StatusPermanentRedirect:
		return "PermanentRedirect"
	default:
		return "Other"
	}
}
