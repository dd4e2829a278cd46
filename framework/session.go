package framework

// Session holds values produced by one step of a run and consumed by later steps, such as
// an auth token or the id of a resource that a test created.
//
// A Session belongs to a single run, and runs are sequential, so it is not safe for
// concurrent use.
type Session struct {
	values map[string]string
}

func NewSession() *Session {
	return &Session{values: make(map[string]string)}
}

// Capture stores a value. Empty values are refused, so that a response that lacked the
// expected field cannot satisfy a later precondition; the return value is false in that case.
func (s *Session) Capture(key, value string) bool {
	if value == "" {
		return false
	}
	s.values[key] = value
	return true
}

// Get returns a previously captured value.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Forget removes a value, for instance after the resource it identifies was deleted.
func (s *Session) Forget(key string) {
	delete(s.values, key)
}
