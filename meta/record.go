package meta

import "github.com/kalyuk/swagdeco/swagger"

// Mode selects how a paginated collection is addressed.
type Mode string

const (
	Classic Mode = "classic"
	Cursor  Mode = "cursor"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Classic || m == Cursor
}

// Pagination is the pagination shape recorded for a member.
type Pagination struct {
	Type     Mode  `json:"type"`
	PageSize int   `json:"pageSize"`
	Sizes    []int `json:"sizes"`
}

// Record is the metadata accumulated for one (entity, member) pair.
// Zero-valued fields in a patch passed to Store.Set leave the stored
// value untouched.
type Record struct {
	URL        string             `json:"url,omitempty"`
	Method     string             `json:"method,omitempty"`
	Pagination *Pagination        `json:"pagination,omitempty"`
	Params     *swagger.Operation `json:"params,omitempty"`
}
