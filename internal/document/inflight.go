package document

import "sync"

// inflightSet tracks tracking codes with a mutating operation underway.
// The UI disables the triggering control while a call is in flight; this is
// the server-side enforcement of the same discipline, so a second mutation
// on the same code is rejected instead of racing the first.
type inflightSet struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{codes: make(map[string]struct{})}
}

// begin reserves a code, returning false when it is already reserved.
func (s *inflightSet) begin(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.codes[code]; busy {
		return false
	}
	s.codes[code] = struct{}{}
	return true
}

func (s *inflightSet) end(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, code)
}
