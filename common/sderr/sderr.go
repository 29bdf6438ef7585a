// Package sderr defines the closed set of validation error codes shared by the
// document composer and the DID identifier resolver. Every distinct validation
// rule fails with its own code so that callers (and other implementations of
// the method) reject the same malformed input for the same reason.
package sderr

import (
	"errors"
	"fmt"
)

// Code identifies a single violated validation rule.
type Code string

// DID identifier parsing codes.
const (
	DidIncorrectPrefix                            Code = "did_incorrect_prefix"
	DidNoUniqueSuffix                             Code = "did_no_unique_suffix"
	DidInvalidDidString                           Code = "did_invalid_did_string"
	DidLongFormNoInitialStateFound                Code = "did_long_form_no_initial_state_found"
	DidLongFormOnlyOneQueryParamAllowed           Code = "did_long_form_only_one_query_param_allowed"
	DidLongFormOnlyInitialStateParameterIsAllowed Code = "did_long_form_only_initial_state_parameter_is_allowed"
	DidInitialStateValueContainsNoDot             Code = "did_initial_state_value_contains_no_dot"
	DidInitialStateValueContainsMoreThanOneDot    Code = "did_initial_state_value_contains_more_than_one_dot"
	DidInitialStateValueContainsEmptySuffixData   Code = "did_initial_state_value_contains_empty_suffix_data"
	DidInitialStateValueContainsEmptyDelta        Code = "did_initial_state_value_contains_empty_delta"
	DidUniqueSuffixFromInitialStateMismatch       Code = "did_unique_suffix_from_initial_state_mismatch"
)

// Document validation codes.
const (
	DocumentMissing           Code = "document_missing"
	DocumentNotJSON           Code = "document_not_json"
	UnknownPropertyInDocument Code = "unknown_property_in_document"
	PublicKeysNotArray        Code = "public_keys_not_array"
	ServiceEndpointsNotArray  Code = "service_endpoints_not_array"

	IdNotUsingBase64URLCharacterSet Code = "id_not_using_base64url_character_set"
	IdTooLong                       Code = "id_too_long"

	PublicKeyEntryNotObject        Code = "public_key_entry_not_object"
	PublicKeyIdMissing             Code = "public_key_id_missing"
	PublicKeyIdDuplicated          Code = "public_key_id_duplicated"
	PublicKeyTypeMissingOrUnknown  Code = "public_key_type_missing_or_unknown"
	OperationKeyTypeNotEs256k      Code = "operation_key_type_not_es256k"
	PublicKeyUsageMissingOrUnknown Code = "public_key_usage_missing_or_unknown"
	PublicKeyUsageExceedsMaxLength Code = "public_key_usage_exceeds_max_length"
	PublicKeyInvalidUsage          Code = "public_key_invalid_usage"
	PublicKeyHexInvalid            Code = "public_key_hex_invalid"

	ServiceEndpointMissingOrUnknownProperty Code = "service_endpoint_missing_or_unknown_property"
	ServiceEndpointTypeNotString            Code = "service_endpoint_type_not_string"
	ServiceEndpointTypeTooLong              Code = "service_endpoint_type_too_long"
	ServiceEndpointValueNotString           Code = "service_endpoint_value_not_string"
	ServiceEndpointValueTooLong             Code = "service_endpoint_value_too_long"
	ServiceEndpointValueNotValidURL         Code = "service_endpoint_value_not_valid_url"
)

// Patch validation codes.
const (
	PatchMissingOrUnknownAction            Code = "patch_missing_or_unknown_action"
	PatchMissingOrUnknownProperty          Code = "patch_missing_or_unknown_property"
	PatchPublicKeysNotArray                Code = "patch_public_keys_not_array"
	PatchPublicKeyMissingOrUnknownProperty Code = "patch_public_key_missing_or_unknown_property"
	PatchPublicKeyIdsNotArray              Code = "patch_public_key_ids_not_array"
	PatchPublicKeyIdNotString              Code = "patch_public_key_id_not_string"
	PatchServiceEndpointsNotArray          Code = "patch_service_endpoints_not_array"
	PatchServiceEndpointIdsNotArray        Code = "patch_service_endpoint_ids_not_array"
	PatchServiceEndpointIdNotString        Code = "patch_service_endpoint_id_not_string"
)

// JWK validation codes.
const (
	JwkEs256kUndefined           Code = "jwk_es256k_undefined"
	JwkEs256kMissingOrInvalidKty Code = "jwk_es256k_missing_or_invalid_kty"
	JwkEs256kMissingOrInvalidCrv Code = "jwk_es256k_missing_or_invalid_crv"
	JwkEs256kMissingOrInvalidX   Code = "jwk_es256k_missing_or_invalid_x"
	JwkEs256kMissingOrInvalidY   Code = "jwk_es256k_missing_or_invalid_y"
	JwkEs256kInvalidPoint        Code = "jwk_es256k_invalid_point"
)

// Encoding and create-operation parsing codes.
const (
	EncodedStringIncorrectEncoding Code = "encoded_string_incorrect_encoding"
	MultihashNotSupported          Code = "multihash_not_supported"
	CreateRequestInvalid           Code = "create_request_invalid"
	CreateSuffixDataInvalid        Code = "create_suffix_data_invalid"
	CreateDeltaInvalid             Code = "create_delta_invalid"
	CreateDeltaHashMismatch        Code = "create_delta_hash_mismatch"
)

// Error is a validation failure carrying one of the codes above.
type Error struct {
	code Code
	msg  string
}

// New creates an Error with the given code and message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Code returns the violated-rule code.
func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// CodeOf extracts the code from err, unwrapping as needed. It returns an
// empty code when err does not carry one.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
