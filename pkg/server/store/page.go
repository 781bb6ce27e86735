package store

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page is the limit/offset window of a list query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default and maximum limit and drops negative offsets.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
