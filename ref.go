package intelmesh

import "github.com/google/uuid"

// RefView is a reference to an API resource: its UUID plus, when the server
// provides one, an absolute URL of the resource.
type RefView struct {
	jsonView
}

// NewRefView wraps a decoded reference document.
func NewRefView(doc map[string]any) RefView {
	return RefView{jsonView{name: "RefView", data: doc}}
}

// UUID returns the referenced resource's identifier.
func (v RefView) UUID() (uuid.UUID, error) {
	return v.uuidField("uuid")
}

// URL returns the absolute URL of the referenced resource, if the server
// included one.
func (v RefView) URL() (string, bool, error) {
	return v.optStr("url")
}
