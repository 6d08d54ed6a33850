package classifier

import (
	"bytes"
	"encoding/json"

	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

// highlightJSON pretty-prints a response body and colors it for the
// terminal. Bodies that are not JSON are returned as they are.
func highlightJSON(raw []byte, dark bool) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	text := pretty.String()

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	styleName := "github"
	if dark {
		styleName = "monokai"
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}
