package htmlclean_test

import (
	"fmt"
	"net/url"

	"github.com/njchilds90/htmlclean"
)

func ExampleSanitize() {
	out, err := htmlclean.Sanitize(`<b>Hello</b> <script>alert('xss')</script>`, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: <b>Hello</b> alert('xss')
}

func ExampleSanitize_customPolicy() {
	p := &htmlclean.Policy{
		AllowedTags:       []string{"p", "a"},
		AllowedAttributes: map[string][]string{"a": {"href"}},
		URLSchemes:        map[string]htmlclean.URLRule{"href": {Schemes: []string{"https"}}},
		LinkRel:           "nofollow",
	}
	out, err := htmlclean.Sanitize(`<p>Visit <a href="https://example.com" onclick="x()">us</a> or <a href="http://insecure.example">them</a></p>`, p)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: <p>Visit <a href="https://example.com" rel="nofollow">us</a> or <a>them</a></p>
}

func ExampleAttributeFilterFunc() {
	p := htmlclean.DefaultPolicy()
	p.AttributeFilter = htmlclean.AttributeFilterFunc(func(tag, attr, value string) (string, bool, error) {
		if tag == "img" && attr == "src" {
			return "https://proxy.example/?u=" + url.QueryEscape(value), true, nil
		}
		return value, true, nil
	})
	out, err := htmlclean.Sanitize(`<img src="http://cdn.example/cat.png" alt="cat">`, p)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: <img src="https://proxy.example/?u=http%3A%2F%2Fcdn.example%2Fcat.png" alt="cat">
}

func ExamplePolicy_WithoutTags() {
	p := htmlclean.DefaultPolicy().WithoutTags("img")
	out, err := htmlclean.Sanitize(`<p><img src="a.png">text</p>`, p)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: <p>text</p>
}

func ExampleExtractText() {
	fmt.Println(htmlclean.ExtractText(`<p>Hello <b>world</b> &amp; friends</p>`))
	// Output: Hello world &amp; friends
}

func ExampleEscapeText() {
	fmt.Println(htmlclean.EscapeText(`<a href="x">`))
	// Output: &lt;a&#32;href&#61;&quot;x&quot;&gt;
}

func ExampleLooksLikeHTML() {
	for _, s := range []string{"plain text", "a < b", "<em>hi</em>", "Tom &amp; Jerry"} {
		fmt.Println(htmlclean.LooksLikeHTML(s))
	}
	// Output:
	// false
	// false
	// true
	// true
}
