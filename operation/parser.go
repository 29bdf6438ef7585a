package operation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pilacorp/go-sidetree-sdk/common/docutil"
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
	"github.com/pilacorp/go-sidetree-sdk/document"
)

const createRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["type", "suffix_data", "delta"],
	"additionalProperties": %t,
	"properties": {
		"type": {"type": "string", "enum": ["create"]},
		"suffix_data": {"type": "string", "minLength": 1},
		"delta": {"type": "string", "minLength": 1}
	}
}`

// ParserOpt configures a Parser.
type ParserOpt func(*Parser)

// WithAdditionalProperties allows create requests to carry properties beyond
// the declared schema, for callers that wrap requests in larger envelopes.
func WithAdditionalProperties() ParserOpt {
	return func(p *Parser) {
		p.allowAdditionalProperties = true
	}
}

// Parser validates and decodes create operation requests.
type Parser struct {
	allowAdditionalProperties bool
	schema                    *gojsonschema.Schema
}

// NewParser creates a create-operation parser.
func NewParser(opts ...ParserOpt) (*Parser, error) {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}

	schemaJSON := fmt.Sprintf(createRequestSchema, p.allowAdditionalProperties)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile create request schema: %w", err)
	}
	p.schema = schema

	return p, nil
}

// ParseCreate validates a create operation request and decodes its suffix-data
// and delta payloads.
func (p *Parser) ParseCreate(request []byte) (*CreateOperation, error) {
	if err := p.validateShape(request); err != nil {
		return nil, err
	}

	var req CreateRequest
	if err := json.Unmarshal(request, &req); err != nil {
		return nil, sderr.New(sderr.CreateRequestInvalid, "failed to decode create request: %v", err)
	}

	suffixData, err := parseSuffixData(req.SuffixData)
	if err != nil {
		return nil, err
	}

	delta, deltaBytes, err := parseDelta(req.Delta)
	if err != nil {
		return nil, err
	}

	if err := verifyDeltaHash(suffixData.DeltaHash, deltaBytes); err != nil {
		return nil, err
	}

	return &CreateOperation{
		OperationBuffer:   request,
		EncodedSuffixData: req.SuffixData,
		EncodedDelta:      req.Delta,
		SuffixData:        suffixData,
		Delta:             delta,
	}, nil
}

func (p *Parser) validateShape(request []byte) error {
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(request))
	if err != nil {
		return sderr.New(sderr.CreateRequestInvalid, "create request is not valid JSON: %v", err)
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}
		return sderr.New(sderr.CreateRequestInvalid, "create request does not match schema: %s", strings.Join(descriptions, "; "))
	}

	return nil
}

func parseSuffixData(encoded string) (*SuffixDataModel, error) {
	data, err := docutil.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var suffixData SuffixDataModel
	if err := json.Unmarshal(data, &suffixData); err != nil {
		return nil, sderr.New(sderr.CreateSuffixDataInvalid, "suffix data is not a JSON object: %v", err)
	}

	if !docutil.IsComputedUsingSupportedHashAlgorithm(suffixData.DeltaHash) {
		return nil, sderr.New(sderr.CreateSuffixDataInvalid, "delta_hash is not a supported multihash")
	}

	if !docutil.IsComputedUsingSupportedHashAlgorithm(suffixData.RecoveryCommitment) {
		return nil, sderr.New(sderr.CreateSuffixDataInvalid, "recovery_commitment is not a supported multihash")
	}

	if err := jwk.ValidateEs256k(suffixData.RecoveryKey); err != nil {
		return nil, err
	}

	return &suffixData, nil
}

func parseDelta(encoded string) (*DeltaModel, []byte, error) {
	data, err := docutil.DecodeString(encoded)
	if err != nil {
		return nil, nil, err
	}

	var raw struct {
		Patches          json.RawMessage `json:"patches"`
		UpdateCommitment string          `json:"update_commitment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, sderr.New(sderr.CreateDeltaInvalid, "delta is not a JSON object: %v", err)
	}

	if len(raw.Patches) == 0 {
		return nil, nil, sderr.New(sderr.CreateDeltaInvalid, "delta is missing patches")
	}

	patches, err := document.ParsePatches(raw.Patches)
	if err != nil {
		return nil, nil, err
	}

	if !docutil.IsComputedUsingSupportedHashAlgorithm(raw.UpdateCommitment) {
		return nil, nil, sderr.New(sderr.CreateDeltaInvalid, "update_commitment is not a supported multihash")
	}

	return &DeltaModel{Patches: patches, UpdateCommitment: raw.UpdateCommitment}, data, nil
}

// verifyDeltaHash recomputes the delta hash with the algorithm the declared
// hash embeds and compares.
func verifyDeltaHash(declared string, deltaBytes []byte) error {
	code, err := docutil.MultihashCode(declared)
	if err != nil {
		return err
	}

	computed, err := docutil.ComputeMultihash(code, deltaBytes)
	if err != nil {
		return err
	}

	if docutil.EncodeToString(computed) != declared {
		return sderr.New(sderr.CreateDeltaHashMismatch, "delta_hash does not match the delta payload")
	}

	return nil
}
