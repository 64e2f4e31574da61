package templates

import (
	"html/template"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RendersPage(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	out, err := r.Render("page", map[string]any{
		"Title":     "Earthquakes",
		"EventsURL": "/api/v1/events",
		"Legend":    template.HTML(`<i style="background:red"></i> 90+<br>`),
		"Config":    map[string]any{"view": map[string]any{"zoom": 5.9}},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Earthquakes</title>")
	assert.Contains(t, out, `<div class="legend"><i style="background:red"></i> 90+<br></div>`)
	assert.Contains(t, out, `"zoom":5.9`)
	assert.Contains(t, out, `data-init="@get('/api/v1/events')"`)
}

func TestDefault_RendersStatus(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	ok, err := r.Render("status", map[string]any{"Action": "rendered", "Message": "3 earthquakes"})
	require.NoError(t, err)
	assert.Contains(t, ok, "3 earthquakes")

	failed, err := r.Render("status", map[string]any{"Action": "failed", "Message": "boom"})
	require.NoError(t, err)
	assert.Contains(t, failed, "Earthquake data unavailable")
	assert.NotContains(t, failed, "boom")
}

func TestReload(t *testing.T) {
	fsys := fstest.MapFS{"html/a.html": {Data: []byte(`{{define "a"}}one{{end}}`)}}
	r, err := New(fsys)
	require.NoError(t, err)

	out, err := r.Render("a", nil)
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	fsys["html/a.html"] = &fstest.MapFile{Data: []byte(`{{define "a"}}two{{end}}`)}
	require.NoError(t, r.Reload(fsys))

	out, err = r.Render("a", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", out)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}
