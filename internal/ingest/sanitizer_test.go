package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestSanitizer_NilAndEmpty(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	require.Nil(t, s.Sanitize(nil))

	out := s.Sanitize(ptr(""))
	require.NotNil(t, out)
	require.Equal(t, "", *out)
}

func TestSanitizer_StripsScriptKeepsAllowedTags(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	out := s.Sanitize(ptr(`<p><b>Bold</b></p><script>x</script>`))
	require.Equal(t, `<p><b>Bold</b></p>`, *out)
}

func TestSanitizer_StripsJavascriptScheme(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	out := *s.Sanitize(ptr(`<a href="javascript:alert(1)">click</a>`))
	require.NotContains(t, out, "javascript")
	require.Contains(t, out, "click")

	out = *s.Sanitize(ptr(`<img src="data:image/png;base64,AAAA" alt="x">`))
	require.NotContains(t, out, "data:")
}

func TestSanitizer_AttributesAndElements(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	require.Equal(t, `<p>hi</p>`, *s.Sanitize(ptr(`<p onclick="steal()" style="color:red">hi</p>`)))
	require.Equal(t, `text`, *s.Sanitize(ptr(`<div>text</div>`)))
	require.Equal(t, `<a href="https://example.com/a" title="t">link</a>`,
		*s.Sanitize(ptr(`<a href="https://example.com/a" title="t" target="_blank">link</a>`)))
	require.Equal(t, ``, *s.Sanitize(ptr(`<style>p{}</style><iframe src="https://evil.test"></iframe>`)))

	out := *s.Sanitize(ptr(`<img src="https://example.com/a.png" alt="pic" onerror="x()">`))
	require.Contains(t, out, `src="https://example.com/a.png"`)
	require.Contains(t, out, `alt="pic"`)
	require.NotContains(t, out, "onerror")

	require.Equal(t, `<pre><code>x := 1</code></pre>`, *s.Sanitize(ptr(`<pre><code>x := 1</code></pre>`)))
}

func TestSanitizer_Idempotent(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	inputs := []string{
		``,
		`plain text & more`,
		`<p><b>Bold</b></p><script>x</script>`,
		`<ul><li>one<li>two</ul>`,
		`<a href="javascript:x">bad</a><a href="http://ok.test">ok</a>`,
		`<blockquote><i>q</i><em>e</em><strong>s</strong></blockquote><br>`,
		`<table><tr><td>cell</td></tr></table>`,
		`<p>unclosed <b>tags`,
		`&lt;script&gt;alert(1)&lt;/script&gt;`,
	}
	for _, in := range inputs {
		once := s.Sanitize(ptr(in))
		twice := s.Sanitize(once)
		require.Equal(t, *once, *twice, in)
	}
}

func TestSanitizer_ConfigIsCopied(t *testing.T) {
	cfg := DefaultSanitizerConfig()
	s := NewSanitizer(cfg)

	cfg.Tags[0] = "script"
	cfg.Schemes[0] = "javascript"

	require.Equal(t, `<p>a</p>`, *s.Sanitize(ptr(`<p>a</p>`)))
	require.Equal(t, `b`, *s.Sanitize(ptr(`<a href="javascript:x">b</a>`)))
}
