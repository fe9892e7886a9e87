package annotate

import (
	"fmt"

	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/swagger"
)

// Swagger merges frag into the member's documentation and pushes the result
// into the document. Fields set on frag win over earlier annotations.
func (m *Member) Swagger(frag *swagger.Operation) *Member {
	if frag == nil {
		frag = &swagger.Operation{}
	}
	m.registry.store.Set(m.entity, m.name, meta.Record{Params: frag})
	if err := m.push(); err != nil {
		return m.fail("swagger", err)
	}
	return m
}

// record reads the member's accumulated metadata.
func (m *Member) record() (meta.Record, error) {
	return m.registry.store.Get(m.entity, m.name)
}

// update merges params into the member record and pushes the result.
func (m *Member) update(params *swagger.Operation) error {
	m.registry.store.Set(m.entity, m.name, meta.Record{Params: params})
	return m.push()
}

// push upserts the member's accumulated documentation into the document.
func (m *Member) push() error {
	rec, err := m.record()
	if err != nil {
		return err
	}
	if rec.URL == "" || rec.Method == "" {
		return fmt.Errorf("%w: %s.%s", ErrNoAction, m.entity, m.name)
	}
	m.registry.doc.UpsertPath(rec.URL, rec.Method, rec.Params)
	return nil
}
