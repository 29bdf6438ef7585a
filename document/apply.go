package document

import (
	"golang.org/x/exp/slices"
)

// ApplyPatches folds a validated, ordered patch sequence into doc and returns
// the resulting document. The input document is never mutated.
func ApplyPatches(doc DocumentModel, patches []Patch) DocumentModel {
	for _, patch := range patches {
		doc = applyPatch(doc, patch)
	}
	return doc
}

func applyPatch(doc DocumentModel, patch Patch) DocumentModel {
	switch patch.Action {
	case ActionAddPublicKeys:
		return addPublicKeys(doc, patch.PublicKeys)
	case ActionRemovePublicKeys:
		return removePublicKeys(doc, patch.PublicKeyIDs)
	case ActionAddServiceEndpoints:
		return addServiceEndpoints(doc, patch.ServiceEndpoints)
	case ActionRemoveServiceEndpoints:
		return removeServiceEndpoints(doc, patch.ServiceEndpointIDs)
	}
	return doc
}

// addPublicKeys replaces an existing key in place when ids collide, preserving
// its position, and appends otherwise. A single patch can therefore rotate and
// add keys atomically.
func addPublicKeys(doc DocumentModel, keys []PublicKey) DocumentModel {
	existing := slices.Clone(doc.PublicKeys)

	for _, key := range keys {
		id := key.ID
		i := slices.IndexFunc(existing, func(k PublicKey) bool { return k.ID == id })
		if i >= 0 {
			existing[i] = key
		} else {
			existing = append(existing, key)
		}
	}

	doc.PublicKeys = existing
	return doc
}

// removePublicKeys filters out keys with matching ids; ids with no match are
// ignored.
func removePublicKeys(doc DocumentModel, ids []string) DocumentModel {
	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	kept := make([]PublicKey, 0, len(doc.PublicKeys))
	for _, key := range doc.PublicKeys {
		if !removed[key.ID] {
			kept = append(kept, key)
		}
	}

	if len(kept) == len(doc.PublicKeys) {
		return doc
	}

	doc.PublicKeys = kept
	return doc
}

func addServiceEndpoints(doc DocumentModel, endpoints []ServiceEndpoint) DocumentModel {
	doc.ServiceEndpoints = append(slices.Clone(doc.ServiceEndpoints), endpoints...)
	return doc
}

// removeServiceEndpoints is a no-op when the document has no serviceEndpoints
// collection or no id matches.
func removeServiceEndpoints(doc DocumentModel, ids []string) DocumentModel {
	if doc.ServiceEndpoints == nil {
		return doc
	}

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	kept := make([]ServiceEndpoint, 0, len(doc.ServiceEndpoints))
	for _, svc := range doc.ServiceEndpoints {
		if !removed[svc.ID] {
			kept = append(kept, svc)
		}
	}

	if len(kept) == len(doc.ServiceEndpoints) {
		return doc
	}

	doc.ServiceEndpoints = kept
	return doc
}
