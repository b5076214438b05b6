package display

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExport(t *testing.T) {
	project, warnings := sampleProject(t)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, "json", project, warnings))

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Contains(t, doc, "project")
		assert.Contains(t, doc, "warnings")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, "yaml", project, warnings))

		var doc struct {
			Project struct {
				Name    string `yaml:"name"`
				Modules []struct {
					ID string `yaml:"id"`
				} `yaml:"modules"`
			} `yaml:"project"`
		}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, "demo", doc.Project.Name)
		assert.Len(t, doc.Project.Modules, 4)
	})

	t.Run("nil warnings encode as empty list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, "json", project, nil))
		assert.Contains(t, buf.String(), `"warnings": []`)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, Export(&bytes.Buffer{}, "xml", project, nil))
	})
}
