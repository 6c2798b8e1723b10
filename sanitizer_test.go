package htmlclean_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/njchilds90/htmlclean"
	"golang.org/x/net/html"
)

func TestSanitize_DefaultPolicy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "event handler dropped",
			in:   `<b><img src='' onerror='alert(\'hax\')'>I'm not trying to XSS you</b>`,
			want: `<b><img src="">I'm not trying to XSS you</b>`,
		},
		{
			name: "rel added to links",
			in:   `<a href="https://example.com">example</a>`,
			want: `<a href="https://example.com" rel="noopener noreferrer">example</a>`,
		},
		{
			name: "script unwrapped",
			in:   `<script>alert(1)</script>`,
			want: `alert(1)`,
		},
		{
			name: "script text escaped",
			in:   `<p><script>if (a < b) {}</script></p>`,
			want: `<p>if (a &lt; b) {}</p>`,
		},
		{
			name: "comments stripped",
			in:   `<!-- hidden --><p>shown</p>`,
			want: `<p>shown</p>`,
		},
		{
			name: "unknown tag unwrapped in place",
			in:   `<p>a<blink>b<i>c</i></blink>d</p>`,
			want: `<p>ab<i>c</i>d</p>`,
		},
		{
			name: "uppercase tags and attributes normalized",
			in:   `<P TITLE="t">x</P>`,
			want: `<p title="t">x</p>`,
		},
		{
			name: "unclosed markup completed",
			in:   `<b>bold`,
			want: `<b>bold</b>`,
		},
		{
			name: "entities stay escaped",
			in:   `1 &lt; 2 &amp;&amp; 3 &gt; 2`,
			want: `1 &lt; 2 &amp;&amp; 3 &gt; 2`,
		},
		{
			name: "attribute quotes escaped",
			in:   `<abbr title='say "hi"'>hi</abbr>`,
			want: `<abbr title="say &quot;hi&quot;">hi</abbr>`,
		},
		{
			name: "javascript href dropped",
			in:   `<a href="javascript:alert(1)">click</a>`,
			want: `<a>click</a>`,
		},
		{
			name: "relative href kept",
			in:   `<a href="/about">About</a>`,
			want: `<a href="/about" rel="noopener noreferrer">About</a>`,
		},
		{
			name: "table gains tbody",
			in:   `<table><tr><td>1</td></tr></table>`,
			want: `<table><tbody><tr><td>1</td></tr></tbody></table>`,
		},
	}

	s := htmlclean.New(htmlclean.DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Sanitize(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sanitize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestSanitize_NilPolicyIsDefault(t *testing.T) {
	input := `<a href="https://example.com">x</a><script>y</script>`
	got, err := htmlclean.Sanitize(input, nil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := htmlclean.Sanitize(input, htmlclean.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("nil policy = %q, default policy = %q", got, want)
	}
}

func TestSanitize_CleanContentTags(t *testing.T) {
	input := `<script>alert('hello')</script><style>a { background: #fff }</style>`

	unwrapped, err := htmlclean.Sanitize(input, htmlclean.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(unwrapped, "alert('hello')") {
		t.Errorf("unwrapped script text should survive: %q", unwrapped)
	}

	p := htmlclean.DefaultPolicy()
	p.CleanContentTags = []string{"script", "style"}
	got, err := htmlclean.Sanitize(input, p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("clean content tags should leave nothing, got %q", got)
	}
}

func TestSanitize_CleanContentDropsNestedText(t *testing.T) {
	p := htmlclean.DefaultPolicy()
	p.CleanContentTags = []string{"aside-note"}
	got, err := htmlclean.Sanitize(`<p>before<aside-note>secret <b>bold</b></aside-note>after</p>`, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>beforeafter</p>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSanitize_AllowedTagWinsOverCleanContent(t *testing.T) {
	p := htmlclean.DefaultPolicy()
	p.CleanContentTags = []string{"b"}
	got, err := htmlclean.Sanitize(`<b>kept</b>`, p)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<b>kept</b>` {
		t.Errorf("allowed tag should be kept, got %q", got)
	}
}

func TestSanitize_TagRestriction(t *testing.T) {
	p := &htmlclean.Policy{AllowedTags: []string{"b"}}
	got, err := htmlclean.Sanitize(`<b><a href="https://example.com">Hello</a></b>`, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<b>Hello</b>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSanitize_EmptyPolicyKeepsOnlyText(t *testing.T) {
	got, err := htmlclean.Sanitize(`<div><p class="x">one</p><img src="a.png"><!-- c -->two</div>`, &htmlclean.Policy{})
	if err != nil {
		t.Fatal(err)
	}
	if want := `onetwo`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSanitize_KeepComments(t *testing.T) {
	p := htmlclean.DefaultPolicy()
	p.KeepComments = true
	got, err := htmlclean.Sanitize(`<p>a<!-- note -->b</p>`, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>a<!-- note -->b</p>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`<p>Hello <b>world</b></p>`,
		`<script>alert(1)</script>`,
		`<a href="javascript:alert(1)">x</a>`,
		`<a href="https://example.com" rel="nofollow">x</a>`,
		`<img src=x onerror=alert(1)>`,
		`<table><tr><td>1</td></tr></table>`,
		`1 &lt; 2 &amp; 3`,
		`<div><style>p{}</style>text</div>`,
		`<ul><li>a<li>b</ul>`,
		`<!-- c --><p>x</p>`,
		`<b>bold`,
		`<p title="a &quot;b&quot; &amp; c">q</p>`,
		`<svg><a xlink:href="javascript:alert(1)">x</a></svg>`,
		"<pre>\n\nindented</pre>",
	}

	s := htmlclean.New(nil)
	for _, in := range inputs {
		once, err := s.Sanitize(in)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := s.Sanitize(once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitize_AttributeFilterError(t *testing.T) {
	boom := errors.New("boom")
	p := htmlclean.DefaultPolicy()
	p.AttributeFilter = htmlclean.AttributeFilterFunc(func(tag, attr, value string) (string, bool, error) {
		if attr == "src" {
			return "", false, boom
		}
		return value, true, nil
	})

	_, err := htmlclean.Sanitize(`<p title="ok"><img src="a.png"></p>`, p)
	if !errors.Is(err, htmlclean.ErrAttributeFilter) {
		t.Errorf("error should wrap ErrAttributeFilter: %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the filter's error: %v", err)
	}
}

func TestSanitizeTree_DepthBound(t *testing.T) {
	root := &html.Node{Type: html.DocumentNode}
	parent := root
	for i := 0; i < htmlclean.MaxDepth+10; i++ {
		div := &html.Node{Type: html.ElementNode, Data: "div"}
		parent.AppendChild(div)
		parent = div
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: "deep"})

	out, err := htmlclean.New(nil).SanitizeTree(root)
	if err != nil {
		t.Fatal(err)
	}

	depth := 0
	for n := out.FirstChild; n != nil; n = n.FirstChild {
		if n.Type == html.TextNode {
			t.Fatalf("text below the depth bound survived at depth %d", depth)
		}
		depth++
	}
	if depth != htmlclean.MaxDepth {
		t.Errorf("kept %d nested elements, want %d", depth, htmlclean.MaxDepth)
	}
}

func TestSanitizeTree_DoesNotModifyInput(t *testing.T) {
	a := &html.Node{
		Type: html.ElementNode,
		Data: "a",
		Attr: []html.Attribute{
			{Key: "href", Val: "https://example.com"},
			{Key: "onclick", Val: "evil()"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: "x"})

	out, err := htmlclean.New(nil).SanitizeTree(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Attr) != 2 {
		t.Errorf("input attributes modified: %v", a.Attr)
	}
	got := out.FirstChild
	if got == nil || got == a {
		t.Fatal("expected a fresh element in output")
	}
	want := []html.Attribute{
		{Key: "href", Val: "https://example.com"},
		{Key: "rel", Val: "noopener noreferrer"},
	}
	if diff := cmp.Diff(want, got.Attr); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizer_ConcurrentUse(t *testing.T) {
	s := htmlclean.New(nil)
	input := `<p>Hello <b>world</b> <script>bad()</script> <a href="http://x.com">link</a></p>`
	want, err := s.Sanitize(input)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := s.Sanitize(input)
				if err != nil || got != want {
					t.Errorf("concurrent Sanitize = %q, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSanitizeReader(t *testing.T) {
	r := strings.NewReader(`<b>hello</b><script>bad</script>`)
	got, err := htmlclean.SanitizeReader(r, htmlclean.StrictPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if want := `<b>hello</b>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSetGetAttr(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "a"}
	htmlclean.SetAttr(n, "href", "https://example.com")
	if v, ok := htmlclean.GetAttr(n, "href"); !ok || v != "https://example.com" {
		t.Errorf("GetAttr got %q, %v", v, ok)
	}
	htmlclean.SetAttr(n, "href", "https://other.com")
	if v, _ := htmlclean.GetAttr(n, "href"); v != "https://other.com" {
		t.Errorf("SetAttr update got %q", v)
	}
	if len(n.Attr) != 1 {
		t.Errorf("SetAttr should replace, got %v", n.Attr)
	}
	if _, ok := htmlclean.GetAttr(n, "title"); ok {
		t.Error("GetAttr reported a missing attribute as present")
	}
}

func BenchmarkSanitize(b *testing.B) {
	input := strings.Repeat(`<p>Hello <b>world</b> <script>bad()</script> <a href="http://x.com">link</a></p>`, 100)
	s := htmlclean.New(htmlclean.DefaultPolicy())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Sanitize(input)
	}
}
