package gemini

// Response is a complete capsule response.
type Response struct {
	Status Status
	// Code is the raw two-digit status code.
	Code int
	Meta string
	Body []byte
}

// NewResponse builds a Response from a raw status code.
func NewResponse(code int, meta string, body []byte) *Response {
	return &Response{Status: StatusFromCode(code), Code: code, Meta: meta, Body: body}
}

// IsRedirect reports whether the response points elsewhere.
func (r *Response) IsRedirect() bool {
	return r.Status == StatusTemporaryRedirect || r.Status == StatusPermanentRedirect
}

// IsInput reports whether the capsule asks for user input.
func (r *Response) IsInput() bool {
	return r.Status == StatusInput || r.Status == StatusSensitiveInput
}

// MediaType returns the parsed meta of a success response. Other statuses
// report the gemtext default.
func (r *Response) MediaType() Meta {
	if r.Status != StatusSuccess {
		return ParseMeta("")
	}
	return ParseMeta(r.Meta)
}

// Content returns the body decoded to UTF-8 per the meta charset. A body in
// an unknown charset is returned as-is with invalid bytes replaced.
func (r *Response) Content() string {
	s, err := DecodeText(r.Body, r.MediaType().Charset())
	if err != nil {
		s, _ = DecodeText(r.Body, "utf-8")
	}
	return s
}
