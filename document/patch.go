package document

import (
	"encoding/json"

	"github.com/pilacorp/go-sidetree-sdk/common/jsonmap"
	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
)

// Action identifies a patch variant.
type Action string

// The four patch actions the method supports.
const (
	ActionAddPublicKeys          Action = "add-public-keys"
	ActionRemovePublicKeys       Action = "remove-public-keys"
	ActionAddServiceEndpoints    Action = "add-service-endpoints"
	ActionRemoveServiceEndpoints Action = "remove-service-endpoints"
)

// Patch is one atomic mutation of a DID document, a tagged union over the
// four actions. Only the fields belonging to the action are populated.
type Patch struct {
	Action Action

	// ActionAddPublicKeys
	PublicKeys []PublicKey

	// ActionRemovePublicKeys
	PublicKeyIDs []string

	// ActionAddServiceEndpoints
	ServiceEndpoints []ServiceEndpoint

	// ActionRemoveServiceEndpoints
	ServiceEndpointIDs []string
}

// ParsePatches validates and decodes a JSON array of patches. The first
// violated rule fails the whole sequence.
func ParsePatches(data []byte) ([]Patch, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "patches is not a JSON array: %v", err)
	}

	patches := make([]Patch, 0, len(raw))
	for _, entry := range raw {
		patch, err := ParsePatch(entry)
		if err != nil {
			return nil, err
		}
		patches = append(patches, *patch)
	}

	return patches, nil
}

// ParsePatch validates and decodes a single patch against the schema of its
// action.
func ParsePatch(data []byte) (*Patch, error) {
	m, err := jsonmap.FromBytes(data)
	if err != nil {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "patch is not a JSON object: %v", err)
	}

	action, ok := m.StringValue("action")
	if !ok {
		return nil, sderr.New(sderr.PatchMissingOrUnknownAction, "patch action is missing or not a string")
	}

	switch Action(action) {
	case ActionAddPublicKeys:
		return parseAddPublicKeys(data, m)
	case ActionRemovePublicKeys:
		return parseRemovePublicKeys(m)
	case ActionAddServiceEndpoints:
		return parseAddServiceEndpoints(data, m)
	case ActionRemoveServiceEndpoints:
		return parseRemoveServiceEndpoints(m)
	default:
		return nil, sderr.New(sderr.PatchMissingOrUnknownAction, "unknown patch action %q", action)
	}
}

func parseAddPublicKeys(data []byte, m jsonmap.JSONMap) (*Patch, error) {
	if prop, found := m.UnknownKey("action", "publicKeys"); found {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "unexpected property %q in add-public-keys patch", prop)
	}

	entries, ok := m.ArrayValue("publicKeys")
	if !ok || len(entries) == 0 {
		return nil, sderr.New(sderr.PatchPublicKeysNotArray, "publicKeys must be a non-empty array")
	}

	if err := validatePublicKeys(entries, true); err != nil {
		return nil, err
	}

	var decoded struct {
		PublicKeys []PublicKey `json:"publicKeys"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, sderr.New(sderr.PatchPublicKeysNotArray, "failed to decode publicKeys: %v", err)
	}

	return &Patch{Action: ActionAddPublicKeys, PublicKeys: decoded.PublicKeys}, nil
}

func parseRemovePublicKeys(m jsonmap.JSONMap) (*Patch, error) {
	if prop, found := m.UnknownKey("action", "publicKeys"); found {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "unexpected property %q in remove-public-keys patch", prop)
	}

	entries, ok := m.ArrayValue("publicKeys")
	if !ok {
		return nil, sderr.New(sderr.PatchPublicKeyIdsNotArray, "publicKeys must be an array of id strings")
	}

	ids, err := parseIDStrings(entries, sderr.PatchPublicKeyIdNotString)
	if err != nil {
		return nil, err
	}

	return &Patch{Action: ActionRemovePublicKeys, PublicKeyIDs: ids}, nil
}

func parseAddServiceEndpoints(data []byte, m jsonmap.JSONMap) (*Patch, error) {
	if prop, found := m.UnknownKey("action", "serviceEndpoints"); found {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "unexpected property %q in add-service-endpoints patch", prop)
	}

	entries, ok := m.ArrayValue("serviceEndpoints")
	if !ok {
		return nil, sderr.New(sderr.PatchServiceEndpointsNotArray, "serviceEndpoints must be an array")
	}

	if err := ValidateServiceEndpoints(entries); err != nil {
		return nil, err
	}

	var decoded struct {
		ServiceEndpoints []ServiceEndpoint `json:"serviceEndpoints"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, sderr.New(sderr.PatchServiceEndpointsNotArray, "failed to decode serviceEndpoints: %v", err)
	}

	return &Patch{Action: ActionAddServiceEndpoints, ServiceEndpoints: decoded.ServiceEndpoints}, nil
}

func parseRemoveServiceEndpoints(m jsonmap.JSONMap) (*Patch, error) {
	if prop, found := m.UnknownKey("action", "serviceEndpointIds"); found {
		return nil, sderr.New(sderr.PatchMissingOrUnknownProperty, "unexpected property %q in remove-service-endpoints patch", prop)
	}

	entries, ok := m.ArrayValue("serviceEndpointIds")
	if !ok {
		return nil, sderr.New(sderr.PatchServiceEndpointIdsNotArray, "serviceEndpointIds must be an array of id strings")
	}

	ids, err := parseIDStrings(entries, sderr.PatchServiceEndpointIdNotString)
	if err != nil {
		return nil, err
	}

	return &Patch{Action: ActionRemoveServiceEndpoints, ServiceEndpointIDs: ids}, nil
}

func parseIDStrings(entries []interface{}, notStringCode sderr.Code) ([]string, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, ok := entry.(string)
		if !ok {
			return nil, sderr.New(notStringCode, "id entry is not a string")
		}
		if err := ValidateID(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UnmarshalJSON decodes a patch with full validation of its action variant.
func (p *Patch) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePatch(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// MarshalJSON emits the wire form of the patch for its action.
func (p Patch) MarshalJSON() ([]byte, error) {
	switch p.Action {
	case ActionAddPublicKeys:
		return json.Marshal(struct {
			Action     Action      `json:"action"`
			PublicKeys []PublicKey `json:"publicKeys"`
		}{p.Action, p.PublicKeys})
	case ActionRemovePublicKeys:
		return json.Marshal(struct {
			Action     Action   `json:"action"`
			PublicKeys []string `json:"publicKeys"`
		}{p.Action, p.PublicKeyIDs})
	case ActionAddServiceEndpoints:
		return json.Marshal(struct {
			Action           Action            `json:"action"`
			ServiceEndpoints []ServiceEndpoint `json:"serviceEndpoints"`
		}{p.Action, p.ServiceEndpoints})
	case ActionRemoveServiceEndpoints:
		return json.Marshal(struct {
			Action             Action   `json:"action"`
			ServiceEndpointIDs []string `json:"serviceEndpointIds"`
		}{p.Action, p.ServiceEndpointIDs})
	default:
		return nil, sderr.New(sderr.PatchMissingOrUnknownAction, "unknown patch action %q", p.Action)
	}
}
