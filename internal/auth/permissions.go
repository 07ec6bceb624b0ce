package auth

import "strings"

// Resource names a permission-guarded entity.
type Resource string

const (
	ResourceMember     Resource = "member"
	ResourceFellowship Resource = "fellowship"
	ResourceEnvelope   Resource = "envelope"
	ResourceRole       Resource = "role"
	ResourceUser       Resource = "user"
	ResourceVolunteer  Resource = "volunteer"
)

// ActionType is the operation half of a permission token.
type ActionType string

const (
	ActionCreate     ActionType = "create"
	ActionUpdate     ActionType = "update"
	ActionDelete     ActionType = "delete"
	ActionDeleteByID ActionType = "deleteById"
	ActionFindAll    ActionType = "findAll"
	ActionFindByID   ActionType = "findById"
)

var (
	resources = []Resource{
		ResourceMember, ResourceFellowship, ResourceEnvelope,
		ResourceRole, ResourceUser, ResourceVolunteer,
	}
	actionTypes = []ActionType{
		ActionCreate, ActionUpdate, ActionDelete,
		ActionDeleteByID, ActionFindAll, ActionFindByID,
	}
)

// Resources lists every guarded resource.
func Resources() []Resource { return append([]Resource(nil), resources...) }

// ActionTypes lists the per-resource action catalogue.
func ActionTypes() []ActionType { return append([]ActionType(nil), actionTypes...) }

// Token returns the permission token "<resource>.<action>".
func Token(r Resource, a ActionType) string { return string(r) + "." + string(a) }

// SplitToken splits a token at its first dot.
func SplitToken(token string) (Resource, ActionType, bool) {
	res, act, ok := strings.Cut(token, ".")
	if !ok || res == "" || act == "" {
		return "", "", false
	}
	return Resource(res), ActionType(act), true
}

// Catalogue lists every permission token, grouped by resource.
func Catalogue() []string {
	out := make([]string, 0, CatalogueSize())
	for _, r := range resources {
		for _, a := range actionTypes {
			out = append(out, Token(r, a))
		}
	}
	return out
}

// CatalogueSize is the number of tokens in the catalogue.
func CatalogueSize() int { return len(resources) * len(actionTypes) }

// InCatalogue reports whether token is a known permission.
func InCatalogue(token string) bool {
	r, a, ok := SplitToken(token)
	if !ok {
		return false
	}
	var knownResource, knownAction bool
	for _, known := range resources {
		knownResource = knownResource || known == r
	}
	for _, known := range actionTypes {
		knownAction = knownAction || known == a
	}
	return knownResource && knownAction
}
