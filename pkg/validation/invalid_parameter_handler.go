// Package validation checks the parameters passed on access service calls and turns every
// failure into an invalid parameter exception.
package validation

import (
	"html"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// DefaultMaxPageSize is used when a server is configured without a limit.
const DefaultMaxPageSize = 1000

// InvalidParameterHandler validates user ids, unique identifiers, names, search strings
// and paging parameters.
type InvalidParameterHandler struct {
	validate    *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      *zap.Logger
	maxPageSize int
}

// NewInvalidParameterHandler creates a handler. A maxPageSize of zero or less means
// DefaultMaxPageSize.
func NewInvalidParameterHandler(maxPageSize int, logger *zap.Logger) *InvalidParameterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &InvalidParameterHandler{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	h.SetMaxPagingSize(maxPageSize)
	return h
}

// SetMaxPagingSize changes the largest page a caller may request.
func (h *InvalidParameterHandler) SetMaxPagingSize(maxPageSize int) {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	h.maxPageSize = maxPageSize
}

// MaxPagingSize returns the largest page a caller may request.
func (h *InvalidParameterHandler) MaxPagingSize() int {
	return h.maxPageSize
}

// ValidateUserID rejects an empty user id.
func (h *InvalidParameterHandler) ValidateUserID(userID, methodName string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.InvalidParameter(errors.NullUserID, methodName, "userId", methodName)
	}
	return nil
}

// ValidateGUID rejects an empty unique identifier.
func (h *InvalidParameterHandler) ValidateGUID(guid, parameterName, methodName string) error {
	if strings.TrimSpace(guid) == "" {
		return errors.InvalidParameter(errors.NullGUID, methodName, parameterName, parameterName, methodName)
	}
	return nil
}

// ValidateName rejects an empty name or one that carries HTML markup.
func (h *InvalidParameterHandler) ValidateName(name, parameterName, methodName string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidParameter(errors.NullName, methodName, parameterName, parameterName, methodName)
	}
	return h.ValidateText(name, parameterName, methodName)
}

// ValidateText rejects a value that the strict markup policy would alter. Empty values pass.
func (h *InvalidParameterHandler) ValidateText(value, parameterName, methodName string) error {
	if value == "" {
		return nil
	}
	if h.sanitizer.Sanitize(value) != html.EscapeString(value) {
		h.logger.Warn("markup rejected in parameter",
			zap.String("parameter", parameterName),
			zap.String("method", methodName))
		return errors.InvalidParameter(errors.InvalidMarkup, methodName, parameterName, parameterName, methodName)
	}
	return nil
}

// ValidateSearchString checks the search string is present and compiles as a regular expression.
func (h *InvalidParameterHandler) ValidateSearchString(searchString, parameterName, methodName string) (*regexp.Regexp, error) {
	if parameterName == "" {
		parameterName = "searchString"
	}
	if searchString == "" {
		return nil, errors.InvalidParameter(errors.NullSearchString, methodName, parameterName, parameterName, methodName)
	}
	re, err := regexp.Compile(searchString)
	if err != nil {
		return nil, errors.InvalidParameter(errors.InvalidSearchString, methodName, parameterName,
			searchString, parameterName, methodName, err.Error())
	}
	return re, nil
}

// ValidateObject rejects nil, including typed nil pointers, maps and slices.
func (h *InvalidParameterHandler) ValidateObject(object any, parameterName, methodName string) error {
	if isNil(object) {
		return errors.InvalidParameter(errors.NullObject, methodName, parameterName, parameterName, methodName)
	}
	return nil
}

// ValidatePaging checks startFrom and pageSize and returns the page size to use. A page size
// of zero means the configured maximum.
func (h *InvalidParameterHandler) ValidatePaging(startFrom, pageSize int, methodName string) (int, error) {
	if startFrom < 0 {
		return 0, errors.InvalidParameter(errors.NegativeStartFrom, methodName, "startFrom",
			strconv.Itoa(startFrom), "startFrom", methodName)
	}
	if pageSize < 0 {
		return 0, errors.InvalidParameter(errors.NegativePageSize, methodName, "pageSize",
			strconv.Itoa(pageSize), "pageSize", methodName)
	}
	if pageSize == 0 {
		return h.maxPageSize, nil
	}
	if pageSize > h.maxPageSize {
		return 0, errors.InvalidParameter(errors.MaxPageSizeExceeded, methodName, "pageSize",
			strconv.Itoa(pageSize), "pageSize", methodName, strconv.Itoa(h.maxPageSize))
	}
	return pageSize, nil
}

// ValidateOMAGServerPlatformURL checks the platform URL root of a remote server.
func (h *InvalidParameterHandler) ValidateOMAGServerPlatformURL(platformURL, serverName, methodName string) error {
	if err := h.validate.Var(platformURL, "required,url"); err != nil {
		return errors.InvalidParameter(errors.InvalidPlatformURL, methodName, "serverPlatformURLRoot",
			platformURL, serverName, methodName)
	}
	return nil
}

// ValidateStruct runs the struct tag rules of a request body. The first failing field is
// reported as the invalid parameter.
func (h *InvalidParameterHandler) ValidateStruct(object any, parameterName, methodName string) error {
	if err := h.ValidateObject(object, parameterName, methodName); err != nil {
		return err
	}
	err := h.validate.Struct(object)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0]
		name := parameterName + "." + lowerFirst(field.Field())
		if field.Tag() == "oneof" {
			return errors.InvalidParameter(errors.InvalidEnumValue, methodName, name,
				toString(field.Value()), name, methodName)
		}
		return errors.InvalidParameter(errors.NullObject, methodName, name, name, methodName)
	}
	return errors.InvalidParameter(errors.NullObject, methodName, parameterName, parameterName, methodName)
}

func isNil(object any) bool {
	if object == nil {
		return true
	}
	v := reflect.ValueOf(object)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return reflect.ValueOf(v).String()
	}
}
