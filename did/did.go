// Package did parses DID identifier strings for the method: short form, and
// the self-certifying long form that embeds a full create operation for
// resolution before ledger confirmation.
package did

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pilacorp/go-sidetree-sdk/common/docutil"
	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
	"github.com/pilacorp/go-sidetree-sdk/operation"
)

const (
	didPrefix             = "did:"
	methodSeparator       = ":"
	querySeparator        = "?"
	initialStateSeparator = "."
)

// CreateOperationParser parses a create operation request. It is the explicit
// boundary to the operation subsystem so alternate parsers can be substituted.
type CreateOperationParser interface {
	ParseCreate(request []byte) (*operation.CreateOperation, error)
}

// DID is a parsed identifier. For long-form DIDs the embedded create
// operation has been parsed and verified against the unique suffix. A DID is
// immutable once constructed.
type DID struct {
	MethodName   string
	UniqueSuffix string
	IsShortForm  bool

	// ShortForm is the short-form rendering, identical for both forms.
	ShortForm string

	// CreateOperation is populated for long-form DIDs only.
	CreateOperation *operation.CreateOperation
}

// Parser parses DID strings for one method.
type Parser struct {
	methodName   string
	prefix       string
	createParser CreateOperationParser
}

// NewParser creates a parser for the given bare method name (for example
// "sidetree"). The create-operation parser is only consulted for long-form
// strings.
func NewParser(methodName string, createParser CreateOperationParser) *Parser {
	return &Parser{
		methodName:   methodName,
		prefix:       didPrefix + methodName + methodSeparator,
		createParser: createParser,
	}
}

// MethodName returns the bare method name the parser accepts.
func (p *Parser) MethodName() string {
	return p.methodName
}

// Parse parses and verifies a short- or long-form DID string.
func (p *Parser) Parse(didString string) (*DID, error) {
	if !strings.HasPrefix(didString, p.prefix) {
		return nil, sderr.New(sderr.DidIncorrectPrefix, "expected DID prefix %q", p.prefix)
	}

	queryIndex := strings.Index(didString, querySeparator)
	if queryIndex < 0 {
		suffix := didString[len(p.prefix):]
		if suffix == "" {
			return nil, sderr.New(sderr.DidNoUniqueSuffix, "DID has no unique suffix")
		}

		return &DID{
			MethodName:   p.methodName,
			UniqueSuffix: suffix,
			IsShortForm:  true,
			ShortForm:    p.prefix + suffix,
		}, nil
	}

	suffix := didString[len(p.prefix):queryIndex]
	if suffix == "" {
		return nil, sderr.New(sderr.DidNoUniqueSuffix, "DID has no unique suffix")
	}

	initialState, err := p.parseInitialStateParam(didString)
	if err != nil {
		return nil, err
	}

	op, err := p.parseInitialState(initialState)
	if err != nil {
		return nil, err
	}

	if err := verifyUniqueSuffix(suffix, op.EncodedSuffixData); err != nil {
		return nil, err
	}

	return &DID{
		MethodName:      p.methodName,
		UniqueSuffix:    suffix,
		IsShortForm:     false,
		ShortForm:       p.prefix + suffix,
		CreateOperation: op,
	}, nil
}

// parseInitialStateParam extracts the value of the single permitted
// -<method>-initial-state query parameter.
func (p *Parser) parseInitialStateParam(didString string) (string, error) {
	u, err := url.Parse(didString)
	if err != nil {
		return "", sderr.New(sderr.DidInvalidDidString, "DID string is not a valid URL: %v", err)
	}

	if u.RawQuery == "" {
		return "", sderr.New(sderr.DidLongFormNoInitialStateFound, "long-form DID has no initial-state parameter")
	}

	params := strings.Split(u.RawQuery, "&")
	if len(params) > 1 {
		return "", sderr.New(sderr.DidLongFormOnlyOneQueryParamAllowed, "only one query parameter is allowed, got %d", len(params))
	}

	expectedKey := "-" + p.methodName + "-initial-state"
	key, value, _ := strings.Cut(params[0], "=")
	if key != expectedKey {
		return "", sderr.New(sderr.DidLongFormOnlyInitialStateParameterIsAllowed, "query parameter must be %q, got %q", expectedKey, key)
	}

	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return "", sderr.New(sderr.DidInvalidDidString, "initial-state value is not query encoded: %v", err)
	}

	return unescaped, nil
}

// parseInitialState splits the initial-state value into suffix-data and delta
// and parses the synthetic create request through the operation parser.
// Parser failures propagate unchanged.
func (p *Parser) parseInitialState(initialState string) (*operation.CreateOperation, error) {
	switch dots := strings.Count(initialState, initialStateSeparator); {
	case dots == 0:
		return nil, sderr.New(sderr.DidInitialStateValueContainsNoDot, "initial-state value contains no dot")
	case dots > 1:
		return nil, sderr.New(sderr.DidInitialStateValueContainsMoreThanOneDot, "initial-state value contains more than one dot")
	}

	suffixData, delta, _ := strings.Cut(initialState, initialStateSeparator)
	if suffixData == "" {
		return nil, sderr.New(sderr.DidInitialStateValueContainsEmptySuffixData, "initial-state suffix-data part is empty")
	}
	if delta == "" {
		return nil, sderr.New(sderr.DidInitialStateValueContainsEmptyDelta, "initial-state delta part is empty")
	}

	request, err := json.Marshal(&operation.CreateRequest{
		Type:       operation.TypeCreate,
		SuffixData: suffixData,
		Delta:      delta,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthetic create request: %w", err)
	}

	return p.createParser.ParseCreate(request)
}

// verifyUniqueSuffix recomputes the suffix from the embedded suffix-data using
// the hash algorithm the short-form suffix itself declares, and compares. This
// binds the self-certifying long form to its short-form digest.
func verifyUniqueSuffix(uniqueSuffix, encodedSuffixData string) error {
	code, err := docutil.MultihashCode(uniqueSuffix)
	if err != nil {
		return err
	}

	computed, err := docutil.CalculateUniqueSuffix(encodedSuffixData, code)
	if err != nil {
		return err
	}

	if computed != uniqueSuffix {
		return sderr.New(sderr.DidUniqueSuffixFromInitialStateMismatch, "unique suffix does not match the initial-state payload")
	}

	return nil
}
