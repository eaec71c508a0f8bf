package repository

// Pagination holds pagination parameters for listing entities.
type Pagination struct {
	PageNo   int32
	PageSize int32
}

// Offset is computed in int64 so large page numbers cannot wrap negative.
func (p *Pagination) Offset() int64 { return int64(p.PageNo-1) * int64(p.PageSize) }

type Filter struct {
	Filter string
}

func (f *Filter) GetFilter() string { return f.Filter }
