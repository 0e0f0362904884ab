package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// RequestValidator checks requests before they are framed.
// Nothing it rejects ever reaches the stream.
type RequestValidator struct {
	maxMethodNameLength int
	maxParamDepth       int
	methodNamePattern   *regexp.Regexp
}

// NewRequestValidator creates a validator with the host's naming rules:
// method names are ASCII identifiers such as "createButton".
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		maxMethodNameLength: 128,
		maxParamDepth:       16,
		methodNamePattern:   regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`),
	}
}

// ValidateMethodName validates a remote method name
func (rv *RequestValidator) ValidateMethodName(method string) error {
	if method == "" {
		return models.NewGUIError(models.UnknownMethod, "method name cannot be empty")
	}
	if len(method) > rv.maxMethodNameLength {
		return models.NewMethodError(models.UnknownMethod, method,
			fmt.Sprintf("method name length %d exceeds maximum %d", len(method), rv.maxMethodNameLength))
	}
	if !rv.methodNamePattern.MatchString(method) {
		return models.NewMethodError(models.UnknownMethod, method, "method name must be alphanumeric")
	}
	return nil
}

// ValidateParams checks param keys and string values.
// encoding/json would silently replace invalid UTF-8, so it is rejected here.
func (rv *RequestValidator) ValidateParams(params map[string]interface{}) error {
	return rv.validateValue("params", params, 0)
}

func (rv *RequestValidator) validateValue(path string, value interface{}, depth int) error {
	if depth > rv.maxParamDepth {
		return models.NewGUIError(models.InvalidRequest,
			fmt.Sprintf("%s nests deeper than %d levels", path, rv.maxParamDepth))
	}

	switch v := value.(type) {
	case string:
		return rv.validateString(path, v)
	case []string:
		for i, item := range v {
			if err := rv.validateString(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case []interface{}:
		for i, item := range v {
			if err := rv.validateValue(fmt.Sprintf("%s[%d]", path, i), item, depth+1); err != nil {
				return err
			}
		}
	case map[string]interface{}:
		for key, item := range v {
			if strings.TrimSpace(key) == "" {
				return models.NewGUIError(models.InvalidRequest, path+" has an empty key")
			}
			if err := rv.validateString(path+" key", key); err != nil {
				return err
			}
			if err := rv.validateValue(path+"."+key, item, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rv *RequestValidator) validateString(path, s string) error {
	if !utf8.ValidString(s) {
		return models.NewGUIError(models.InvalidRequest, path+" contains invalid UTF-8")
	}
	return nil
}

// ValidateRequest validates the method name and params of req
func (rv *RequestValidator) ValidateRequest(req *models.Request) error {
	if req == nil {
		return models.NewGUIError(models.UnknownMethod, "request is nil")
	}
	if err := rv.ValidateMethodName(req.Method); err != nil {
		return err
	}
	if err := rv.ValidateParams(req.Params); err != nil {
		var guiErr *models.GUIError
		if errors.As(err, &guiErr) {
			return guiErr.WithMethod(req.Method)
		}
		return err
	}
	return nil
}

