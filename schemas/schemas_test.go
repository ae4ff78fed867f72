package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xeipuuv/gojsonschema"
)

func TestSchemas_ValidJSONSchema(t *testing.T) {
	schemas := map[string]string{
		"resume":       Resume,
		"role_mapping": RoleMapping,
	}

	for name, content := range schemas {
		t.Run(name, func(t *testing.T) {
			var v map[string]any
			assert.NoError(t, json.Unmarshal([]byte(content), &v), "schema should be valid JSON")

			_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
			assert.NoError(t, err, "schema should compile")
		})
	}
}
