package ignore

import (
	"strings"
	"testing"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Sections(t *testing.T) {
	tests := []struct {
		name      string
		languages []string
		want      []string
		notWant   []string
	}{
		{"no languages", nil, []string{".DS_Store", ".env.local"}, []string{"# Node.js", "# Python", "# Java"}},
		{"typescript", []string{"typescript", "html"}, []string{"# Node.js", "node_modules/"}, []string{"# Python"}},
		{"python", []string{"python"}, []string{"# Python", "__pycache__/"}, []string{"# Node.js", "# Java"}},
		{"java and js", []string{"javascript", "java"}, []string{"# Node.js", "# Java", "*.jar"}, []string{"# Python"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Template(tt.languages)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestTemplate_NodeSectionOnce(t *testing.T) {
	got := Template([]string{"javascript", "typescript"})
	assert.Equal(t, 1, strings.Count(got, "# Node.js"))
}

func TestMatcher_ShouldIgnore(t *testing.T) {
	m := NewMatcher("# comment\n\nnode_modules/\n*.log\n!keep.log\nbuild/\n")
	require.NotNil(t, m)

	assert.True(t, m.ShouldIgnore("node_modules/react/index.js"))
	assert.True(t, m.ShouldIgnore("logs/app.log"))
	assert.False(t, m.ShouldIgnore("keep.log"))
	assert.True(t, m.ShouldIgnore("build/out/app.js"))
	assert.False(t, m.ShouldIgnore("src/app.js"))
	assert.False(t, m.ShouldIgnore(""))
}

func TestMatcher_EmptyContentIsNil(t *testing.T) {
	m := NewMatcher("# only comments\n\n")
	assert.Nil(t, m)
	assert.False(t, m.ShouldIgnore("anything"))
}

func TestFromGraph(t *testing.T) {
	g := graph.New()
	f, err := g.CreateFile(FileName, "", "")
	require.NoError(t, err)
	require.NoError(t, g.SetContent(f.ID, "*.tmp\n"))

	m := FromGraph(g)

	require.NotNil(t, m)
	assert.True(t, m.ShouldIgnore("scratch.tmp"))
	assert.Nil(t, FromGraph(graph.New()))
}

func TestLanguages_Distinct(t *testing.T) {
	g := graph.New()
	_, _ = g.CreateFile("a.py", "", "")
	_, _ = g.CreateFile("b.py", "", "")
	_, _ = g.CreateFile("c.ts", "", "")
	_, _ = g.CreateFolder("src", "")

	assert.Equal(t, []string{"python", "typescript"}, Languages(g))
}
