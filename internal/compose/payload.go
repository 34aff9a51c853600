package compose

import (
	"encoding/json"
	"time"

	"archmap/internal/arch"
	"archmap/internal/graph"
	"archmap/internal/impact"
	"archmap/internal/scan"
)

// aggregateEntry is the cache entry name for a whole-project build. The
// scope key is the project root, so distinct projects never collide.
const aggregateEntry = "build.json"

// payloadSchemaVersion guards the payload layout. Bump it when the
// serialized shape changes; readers treat any other version as a miss.
const payloadSchemaVersion = 1

// payload is the serialized form of one complete build.
type payload struct {
	SchemaVersion int                  `json:"schemaVersion"`
	GeneratedAt   time.Time            `json:"generatedAt"`
	Files         scan.FileTable       `json:"files"`
	Relationships []graph.Relationship `json:"relationships"`
	Patterns      []arch.Pattern       `json:"patterns"`
}

func (c *Composer) marshalPayload() []byte {
	data, err := json.Marshal(payload{
		SchemaVersion: payloadSchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		Files:         c.table,
		Relationships: c.graph.Relationships(),
		Patterns:      c.patterns,
	})
	if err != nil {
		// Every field is plain data; this cannot happen in practice.
		return nil
	}
	return data
}

// restore rebuilds composer state from a cached payload. It reports false
// when the payload is unreadable or from another schema version, in which
// case the caller falls back to a fresh scan.
func (c *Composer) restore(data []byte) bool {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Debug("cached build payload unreadable", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	if p.SchemaVersion != payloadSchemaVersion {
		c.logger.Debug("cached build payload from another schema version", map[string]interface{}{
			"found": p.SchemaVersion,
			"want":  payloadSchemaVersion,
		})
		return false
	}
	if p.Files == nil {
		p.Files = scan.FileTable{}
	}

	roles := make(map[string]arch.Role, len(p.Files))
	for path, rec := range p.Files {
		if rec.Role != "" {
			roles[path] = arch.Role(rec.Role)
			continue
		}
		roles[path] = arch.ClassifyRole(path)
	}

	c.table = p.Files
	c.graph = graph.FromRelationships(p.Files, p.Relationships)
	c.roles = roles
	c.patterns = p.Patterns
	c.analyzer = impact.New(c.table, c.graph, c.roles)
	return true
}
