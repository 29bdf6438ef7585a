package document

import (
	"encoding/hex"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-sidetree-sdk/common/jsonmap"
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
)

var base64URLRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var allowedKeyTypes = map[string]bool{
	KeyTypeSecp256k1: true,
	KeyTypeJWS:       true,
	KeyTypeEd25519:   true,
}

var allowedUsages = map[string]bool{
	UsageOps:     true,
	UsageGeneral: true,
	UsageAuth:    true,
}

// ParseDocument validates raw document bytes against the document schema and
// decodes them into a DocumentModel. Rules are applied in order and the first
// violation wins.
func ParseDocument(data []byte) (*DocumentModel, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, sderr.New(sderr.DocumentMissing, "document is missing")
	}

	m, err := jsonmap.FromBytes(data)
	if err != nil {
		return nil, sderr.New(sderr.DocumentNotJSON, "document is not a JSON object: %v", err)
	}

	if key, found := m.UnknownKey("publicKeys", "serviceEndpoints"); found {
		return nil, sderr.New(sderr.UnknownPropertyInDocument, "unexpected property %q in document", key)
	}

	if raw, present := m["publicKeys"]; present {
		entries, ok := raw.([]interface{})
		if !ok {
			return nil, sderr.New(sderr.PublicKeysNotArray, "publicKeys is not an array")
		}
		if err := ValidatePublicKeys(entries); err != nil {
			return nil, err
		}
	}

	if raw, present := m["serviceEndpoints"]; present {
		entries, ok := raw.([]interface{})
		if !ok {
			return nil, sderr.New(sderr.ServiceEndpointsNotArray, "serviceEndpoints is not an array")
		}
		if err := ValidateServiceEndpoints(entries); err != nil {
			return nil, err
		}
	}

	var doc DocumentModel
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, sderr.New(sderr.DocumentNotJSON, "failed to decode document: %v", err)
	}

	return &doc, nil
}

// ValidateID checks that id uses the Base64URL character set and does not
// exceed the maximum identifier length.
func ValidateID(id string) error {
	if !base64URLRegex.MatchString(id) {
		return sderr.New(sderr.IdNotUsingBase64URLCharacterSet, "id %q is not using the base64url character set", id)
	}
	if len(id) > maxIDLength {
		return sderr.New(sderr.IdTooLong, "id exceeds maximum length of %d", maxIDLength)
	}
	return nil
}

// ValidatePublicKeys applies the per-key document rules to raw publicKeys
// entries: id format and uniqueness, known key type, usage constraints, and
// the secp256k1 requirement for operation keys.
func ValidatePublicKeys(entries []interface{}) error {
	return validatePublicKeys(entries, false)
}

// validatePublicKeys optionally enforces the patch-level contract as well:
// a closed field set, ES256K JWK material on operation keys, and well-formed
// publicKeyHex material when supplied.
func validatePublicKeys(entries []interface{}, patchRules bool) error {
	seen := make(map[string]bool)

	for _, entry := range entries {
		key, ok := jsonmap.FromValue(entry)
		if !ok {
			return sderr.New(sderr.PublicKeyEntryNotObject, "public key entry is not an object")
		}

		if patchRules {
			if prop, found := key.UnknownKey("id", "type", "jwk", "publicKeyPem", "publicKeyHex", "usage"); found {
				return sderr.New(sderr.PatchPublicKeyMissingOrUnknownProperty, "unexpected property %q in public key", prop)
			}
		}

		id, ok := key.StringValue("id")
		if !ok {
			return sderr.New(sderr.PublicKeyIdMissing, "public key id is missing or not a string")
		}
		if err := ValidateID(id); err != nil {
			return err
		}

		if seen[id] {
			return sderr.New(sderr.PublicKeyIdDuplicated, "public key id %q is duplicated", id)
		}
		seen[id] = true

		keyType, ok := key.StringValue("type")
		if !ok || !allowedKeyTypes[keyType] {
			return sderr.New(sderr.PublicKeyTypeMissingOrUnknown, "public key type is missing or unknown")
		}

		usages, err := validateUsage(key)
		if err != nil {
			return err
		}

		if usages[UsageOps] && keyType != KeyTypeSecp256k1 {
			return sderr.New(sderr.OperationKeyTypeNotEs256k, "operation key type must be %s", KeyTypeSecp256k1)
		}

		if patchRules {
			if err := validateKeyMaterial(key, usages); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateUsage(key jsonmap.JSONMap) (map[string]bool, error) {
	raw, ok := key.ArrayValue("usage")
	if !ok || len(raw) == 0 {
		return nil, sderr.New(sderr.PublicKeyUsageMissingOrUnknown, "public key usage is missing")
	}
	if len(raw) > maxUsageCount {
		return nil, sderr.New(sderr.PublicKeyUsageExceedsMaxLength, "public key usage exceeds maximum count of %d", maxUsageCount)
	}

	usages := make(map[string]bool)
	for _, u := range raw {
		usage, ok := u.(string)
		if !ok || !allowedUsages[usage] {
			return nil, sderr.New(sderr.PublicKeyInvalidUsage, "public key usage is not one of ops, general, auth")
		}
		usages[usage] = true
	}

	return usages, nil
}

// validateKeyMaterial enforces the key material rules for keys arriving via
// patches: operation keys must supply an ES256K JWK, and hex-encoded material
// must be a valid compressed secp256k1 point.
func validateKeyMaterial(key jsonmap.JSONMap, usages map[string]bool) error {
	if usages[UsageOps] {
		rawJWK, present := key["jwk"]
		if !present {
			return sderr.New(sderr.JwkEs256kUndefined, "operation key must supply key material via jwk")
		}

		parsed, err := decodeJWK(rawJWK)
		if err != nil {
			return err
		}
		if err := jwk.ValidateEs256k(parsed); err != nil {
			return err
		}
	}

	if rawHex, present := key["publicKeyHex"]; present {
		hexStr, ok := rawHex.(string)
		if !ok {
			return sderr.New(sderr.PublicKeyHexInvalid, "publicKeyHex is not a string")
		}
		compressed, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
		if err != nil {
			return sderr.New(sderr.PublicKeyHexInvalid, "publicKeyHex is not hex encoded: %v", err)
		}
		if _, err := ethcrypto.DecompressPubkey(compressed); err != nil {
			return sderr.New(sderr.PublicKeyHexInvalid, "publicKeyHex is not a compressed secp256k1 point: %v", err)
		}
	}

	return nil
}

func decodeJWK(raw interface{}) (*jwk.JWK, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, sderr.New(sderr.JwkEs256kUndefined, "jwk is not serializable: %v", err)
	}

	var key jwk.JWK
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, sderr.New(sderr.JwkEs256kUndefined, "jwk is not an object: %v", err)
	}

	return &key, nil
}

// ValidateServiceEndpoints applies the service endpoint rules to raw
// serviceEndpoints entries.
func ValidateServiceEndpoints(entries []interface{}) error {
	for _, entry := range entries {
		svc, ok := jsonmap.FromValue(entry)
		if !ok {
			return sderr.New(sderr.ServiceEndpointMissingOrUnknownProperty, "service endpoint entry is not an object")
		}

		if prop, found := svc.UnknownKey("id", "type", "serviceEndpoint"); found {
			return sderr.New(sderr.ServiceEndpointMissingOrUnknownProperty, "unexpected property %q in service endpoint", prop)
		}

		id, ok := svc.StringValue("id")
		if !ok {
			return sderr.New(sderr.ServiceEndpointMissingOrUnknownProperty, "service endpoint id is missing or not a string")
		}
		if err := ValidateID(id); err != nil {
			return err
		}

		svcType, ok := svc.StringValue("type")
		if !ok {
			return sderr.New(sderr.ServiceEndpointTypeNotString, "service endpoint type is missing or not a string")
		}
		if len(svcType) > maxServiceTypeLength {
			return sderr.New(sderr.ServiceEndpointTypeTooLong, "service endpoint type exceeds maximum length of %d", maxServiceTypeLength)
		}

		endpoint, ok := svc.StringValue("serviceEndpoint")
		if !ok {
			return sderr.New(sderr.ServiceEndpointValueNotString, "serviceEndpoint is missing or not a string")
		}
		if len(endpoint) > maxServiceEndpointLength {
			return sderr.New(sderr.ServiceEndpointValueTooLong, "serviceEndpoint exceeds maximum length of %d", maxServiceEndpointLength)
		}
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return sderr.New(sderr.ServiceEndpointValueNotValidURL, "serviceEndpoint is not a valid URL: %v", err)
		}
	}

	return nil
}
