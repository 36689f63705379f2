package render

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"br":     true,
	"code":   true,
	"em":     true,
	"i":      true,
	"label":  true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are rendered as a bare name when true and omitted when false.
var booleanAttrs = map[string]bool{
	"autofocus":   true,
	"autoplay":    true,
	"checked":     true,
	"controls":    true,
	"disabled":    true,
	"hidden":      true,
	"loop":        true,
	"multiple":    true,
	"muted":       true,
	"open":        true,
	"playsinline": true,
	"readonly":    true,
	"required":    true,
	"selected":    true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
