package document

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/editor"
)

// ErrInvalidArgs is returned for a command whose arguments do not decode.
var ErrInvalidArgs = errors.New("invalid arguments")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgs, fmt.Sprintf(format, args...))
}

// editorFunc is a command body that runs against an attached editor.
type editorFunc func(cmd handler.Command, ed *editor.Editor) handler.Result

// run resolves the editor from ctx and calls fn.
func run(cmd handler.Command, ctx *execctx.ExecutionContext, fn editorFunc) handler.Result {
	if err := ctx.RequireEditor(); err != nil {
		return handler.Error(err)
	}
	return fn(cmd, ctx.Editor)
}

// optInt returns the integer at key, or nil when it is absent or null.
func optInt(args gjson.Result, key string) (*int, error) {
	v := args.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if v.Type != gjson.Number {
		return nil, invalid("%s must be a number", key)
	}
	n := int(v.Int())
	return &n, nil
}

// str returns the string at key; missing keys yield "".
func str(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return v.Str, nil
	}
	return "", invalid("%s must be a string", key)
}

// requireStr is str for arguments that must be present.
func requireStr(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	if v.Type != gjson.String {
		return "", invalid("%s is required", key)
	}
	return v.Str, nil
}

// requireBool returns the boolean at key.
func requireBool(args gjson.Result, key string) (bool, error) {
	v := args.Get(key)
	if !v.IsBool() {
		return false, invalid("%s must be a boolean", key)
	}
	return v.Bool(), nil
}

// pathArg decodes a child-index path such as [0, 2, 1].
func pathArg(v gjson.Result) (dom.Path, error) {
	if !v.IsArray() {
		return nil, invalid("path must be an array of child indexes")
	}
	var p dom.Path
	for _, el := range v.Array() {
		if el.Type != gjson.Number || el.Int() < 0 {
			return nil, invalid("path element %s is not an index", el.Raw)
		}
		p = append(p, int(el.Int()))
	}
	return p, nil
}

// nodeArg resolves a path argument against the document root.
func nodeArg(root *html.Node, v gjson.Result) (*html.Node, error) {
	p, err := pathArg(v)
	if err != nil {
		return nil, err
	}
	n := dom.Resolve(root, p)
	if n == nil {
		return nil, invalid("path %v does not resolve", p)
	}
	return n, nil
}

// positionArg decodes {"path": [...], "offset": n}. Offsets into text
// nodes count UTF-16 code units, as a browser Selection reports them.
func positionArg(root *html.Node, v gjson.Result) (dom.Position, error) {
	if !v.IsObject() {
		return dom.Position{}, invalid("position must be an object")
	}
	n, err := nodeArg(root, v.Get("path"))
	if err != nil {
		return dom.Position{}, err
	}
	off := int(v.Get("offset").Int())
	if n.Type == html.TextNode {
		off = dom.ByteOffset(n.Data, off)
	}
	return dom.Position{Node: n, Offset: off}, nil
}

// rectArg decodes {"x","y","width","height"} numbers.
func rectArg(v gjson.Result) (x, y, w, h float64) {
	return v.Get("x").Float(), v.Get("y").Float(), v.Get("width").Float(), v.Get("height").Float()
}
