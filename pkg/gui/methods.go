package gui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// ReplyShape describes what the host sends back for a remote method
type ReplyShape int

const (
	// ReplyNone means the host does not answer; the request is fire-and-forget
	ReplyNone ReplyShape = iota
	// ReplyInt is a bare integer, e.g. the handle of a created view
	ReplyInt
	// ReplyIntPair is a two-element integer array, e.g. [aid, tid] or [width, height]
	ReplyIntPair
	// ReplyString is a bare string
	ReplyString
	// ReplyBool is a bare boolean
	ReplyBool
)

// String returns the shape name used in error details
func (s ReplyShape) String() string {
	switch s {
	case ReplyNone:
		return "none"
	case ReplyInt:
		return "integer"
	case ReplyIntPair:
		return "integer pair"
	case ReplyString:
		return "string"
	case ReplyBool:
		return "boolean"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// MethodSpec is one entry of the remote method catalog
type MethodSpec struct {
	Name  string
	Reply ReplyShape
}

// methodCatalog lists every remote method the facade may send together with
// the reply shape the host actually produces for it.
var methodCatalog = map[string]MethodSpec{}

func register(reply ReplyShape, names ...string) {
	for _, name := range names {
		methodCatalog[name] = MethodSpec{Name: name, Reply: reply}
	}
}

func init() {
	register(ReplyIntPair,
		"newActivity",
		"getDimensions",
		"getScrollPosition",
	)
	register(ReplyInt,
		"createTextView",
		"createButton",
		"createEditText",
		"createCheckbox",
		"createSwitch",
		"createToggleButton",
		"createRadioButton",
		"createRadioGroup",
		"createSpinner",
		"createLinearLayout",
		"createNestedScrollView",
		"createHorizontalScrollView",
		"createFrameLayout",
		"createGridLayout",
		"createSwipeRefreshLayout",
		"createTabLayout",
		"createImageView",
		"createProgressBar",
		"createSpace",
		"createWebView",
	)
	register(ReplyString, "getText")
	register(ReplyBool, "allowJavascript")
	register(ReplyNone,
		// activity
		"finishActivity",
		"setTheme",
		"setTaskDescription",
		"keepScreenOn",
		"setOrientation",
		"setInputMode",
		"toast",
		// view
		"setWidth",
		"setHeight",
		"setMargin",
		"setLinearLayoutParams",
		"setGridLayoutParams",
		"setBackgroundColor",
		"setVisibility",
		"setClickable",
		"requestFocus",
		"deleteView",
		// text and compound buttons
		"setText",
		"setTextSize",
		"setTextColor",
		"setHint",
		"setChecked",
		// containers and lists
		"setList",
		"refreshSpinner",
		"selectItem",
		"selectTab",
		"setRefreshing",
		"setScrollPosition",
		// media and progress
		"setImage",
		"refreshImageView",
		"setProgress",
		// web view
		"loadURI",
		"setData",
		"allowContentURI",
		"allowNavigation",
		"evaluateJS",
		"goBack",
		"goForward",
	)
}

// LookupMethod returns the catalog entry for name
func LookupMethod(name string) (MethodSpec, bool) {
	spec, ok := methodCatalog[name]
	return spec, ok
}

// Methods returns the names of all catalogued methods, sorted
func Methods() []string {
	names := make([]string, 0, len(methodCatalog))
	for name := range methodCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectMethod checks that method is catalogued with the given reply shape.
// A mismatch is a facade bug and is reported as UnknownMethod before anything is sent.
func expectMethod(method string, reply ReplyShape) error {
	spec, ok := LookupMethod(method)
	if !ok {
		return models.NewMethodError(models.UnknownMethod, method, "method is not in the catalog")
	}
	if spec.Reply != reply {
		return models.NewMethodError(models.UnknownMethod, method,
			fmt.Sprintf("catalogued reply is %s, caller expects %s", spec.Reply, reply))
	}
	return nil
}

func invalidReply(method string, expected ReplyShape, raw json.RawMessage) error {
	return models.NewMethodError(models.InvalidResponse, method,
		fmt.Sprintf("expected %s, got %s", expected, describeJSON(raw)))
}

// describeJSON names the JSON type of raw for error messages
func describeJSON(raw json.RawMessage) string {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "invalid JSON"
	}
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		if v == math.Trunc(v) {
			return "integer"
		}
		return "number"
	case string:
		return "string"
	case []interface{}:
		return fmt.Sprintf("array of %d", len(v))
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// DecodeInt decodes a bare integer reply
func DecodeInt(method string, raw json.RawMessage) (int64, error) {
	value, ok := decodeInteger(raw)
	if !ok {
		return 0, invalidReply(method, ReplyInt, raw)
	}
	return value, nil
}

// DecodeIntPair decodes a two-element integer array reply
func DecodeIntPair(method string, raw json.RawMessage) (int64, int64, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return 0, 0, invalidReply(method, ReplyIntPair, raw)
	}
	first, ok := decodeInteger(pair[0])
	if !ok {
		return 0, 0, invalidReply(method, ReplyIntPair, raw)
	}
	second, ok := decodeInteger(pair[1])
	if !ok {
		return 0, 0, invalidReply(method, ReplyIntPair, raw)
	}
	return first, second, nil
}

// DecodeString decodes a bare string reply
func DecodeString(method string, raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", invalidReply(method, ReplyString, raw)
	}
	return *s, nil
}

// DecodeBool decodes a bare boolean reply
func DecodeBool(method string, raw json.RawMessage) (bool, error) {
	var b *bool
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return false, invalidReply(method, ReplyBool, raw)
	}
	return *b, nil
}

// decodeInteger accepts only a JSON number without fraction or exponent.
// Quoted numbers are rejected.
func decodeInteger(raw json.RawMessage) (int64, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return 0, false
	}
	n, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}
