package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shrewx/crudx/pkg/tmpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadContext(t *testing.T) {
	dir := t.TempDir()
	want := tmpl.Context{
		"entityClassName": "Order",
		"port":            "8080",
		"enabled":         "true",
		"db.name":         "shop",
		"empty":           "",
	}

	cases := map[string]string{
		"ctx.yaml": "entityClassName: Order\nport: 8080\nenabled: true\nempty:\ndb:\n  name: shop\n",
		"ctx.json": `{"entityClassName":"Order","port":8080,"enabled":true,"empty":null,"db":{"name":"shop"}}`,
		"ctx.toml": "entityClassName = \"Order\"\nport = 8080\nenabled = true\nempty = \"\"\n[db]\nname = \"shop\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			ctx, err := LoadContext(writeFile(t, dir, name, content))
			require.NoError(t, err)
			assert.Equal(t, want, ctx)
		})
	}

	_, err := LoadContext(writeFile(t, dir, "ctx.ini", "a=b"))
	assert.Error(t, err)

	_, err = LoadContext(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSet(t *testing.T) {
	ctx, err := ParseSet([]string{"name=Order", "expr=a=b", "blank="})
	require.NoError(t, err)
	assert.Equal(t, tmpl.Context{"name": "Order", "expr": "a=b", "blank": ""}, ctx)

	_, err = ParseSet([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseSet([]string{"=x"})
	assert.Error(t, err)
}

func TestBuildContext_Precedence(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.yaml", "name: A\nonlyA: x\n")
	second := writeFile(t, dir, "b.json", `{"name":"B"}`)

	ctx, err := BuildContext([]string{first, second}, []string{"extra=1"})
	require.NoError(t, err)
	assert.Equal(t, tmpl.Context{"name": "B", "onlyA": "x", "extra": "1"}, ctx)

	ctx, err = BuildContext([]string{first}, []string{"name=C"})
	require.NoError(t, err)
	assert.Equal(t, "C", ctx["name"])
}
