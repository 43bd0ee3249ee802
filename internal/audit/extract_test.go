package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEntity struct {
	id   string
	name string
}

func (f fakeEntity) AuditEntityID() string   { return f.id }
func (f fakeEntity) AuditEntityName() string { return f.name }

func TestExtractEntityID(t *testing.T) {
	id := uuid.New()

	t.Run("identifiable argument wins", func(t *testing.T) {
		got := ExtractEntityID("updateKegiatan", fakeEntity{id: "keg-1"}, id)
		assert.Equal(t, "keg-1", got)
	})

	t.Run("uuid argument", func(t *testing.T) {
		assert.Equal(t, id.String(), ExtractEntityID("getKegiatan", id))
	})

	t.Run("uuid pointer argument", func(t *testing.T) {
		assert.Equal(t, id.String(), ExtractEntityID("getKegiatan", &id))
	})

	t.Run("uuid-shaped string counts for any operation", func(t *testing.T) {
		assert.Equal(t, id.String(), ExtractEntityID("listKegiatan", id.String()))
	})

	t.Run("plain string counts only for ById operations", func(t *testing.T) {
		assert.Equal(t, "KEG-2024-001", ExtractEntityID("getKegiatanById", "KEG-2024-001"))
		assert.Equal(t, "", ExtractEntityID("listKegiatan", "not-an-id"))
	})

	t.Run("nothing derivable returns empty", func(t *testing.T) {
		assert.Equal(t, "", ExtractEntityID("listKegiatan", 42, uuid.Nil, (*uuid.UUID)(nil)))
		assert.Equal(t, "", ExtractEntityID("listKegiatan"))
	})
}

func TestExtractEntityName(t *testing.T) {
	t.Run("named argument wins over result", func(t *testing.T) {
		got := ExtractEntityName(fakeEntity{name: "from result"}, fakeEntity{name: "from arg"})
		assert.Equal(t, "from arg", got)
	})

	t.Run("falls back to result", func(t *testing.T) {
		got := ExtractEntityName(fakeEntity{name: "Pembangunan Posyandu"}, "arg", 7)
		assert.Equal(t, "Pembangunan Posyandu", got)
	})

	t.Run("nothing derivable returns empty", func(t *testing.T) {
		assert.Equal(t, "", ExtractEntityName(nil, "x", 1))
	})
}
