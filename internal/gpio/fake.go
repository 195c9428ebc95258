package gpio

// FakePin is a test double that records driven levels.
type FakePin struct {
	// Levels holds every value passed to Set, in order.
	Levels []bool

	// SetError, if set, is returned by Set.
	SetError error

	Closed bool
}

func (f *FakePin) Set(high bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels = append(f.Levels, high)
	return nil
}

func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}
