package events

import (
	"github.com/dshills/richedit/internal/event/topic"
	"github.com/dshills/richedit/internal/object"
)

// Editor event topics.
const (
	// TopicContentChanged is published once per logical edit, after the
	// document mutation and its history snapshot.
	TopicContentChanged topic.Topic = "editor.content.changed"

	// TopicObjectSelected is published when an object becomes active.
	TopicObjectSelected topic.Topic = "editor.object.selected"

	// TopicObjectDeselected is published when the active object is released.
	TopicObjectDeselected topic.Topic = "editor.object.deselected"

	// TopicObjectDeleted is published when an object is removed.
	TopicObjectDeleted topic.Topic = "editor.object.deleted"

	// TopicObjectPropertiesChanged is published after a manipulation of the
	// active object.
	TopicObjectPropertiesChanged topic.Topic = "editor.object.properties"

	// TopicAll matches every editor topic.
	TopicAll topic.Topic = "editor.**"
)

var wireNames = map[topic.Topic]string{
	TopicContentChanged:          "contentChanged",
	TopicObjectSelected:          "objectSelected",
	TopicObjectDeselected:        "objectDeselected",
	TopicObjectDeleted:           "objectDeleted",
	TopicObjectPropertiesChanged: "objectPropertiesChanged",
}

// WireName returns the host-facing name of an editor topic.
func WireName(t topic.Topic) (string, bool) {
	name, ok := wireNames[t]
	return name, ok
}

// ContentChanged is the payload of TopicContentChanged.
type ContentChanged struct {
	// Label names the operation that caused the change.
	Label string `json:"label,omitempty"`
}

// ObjectSelected is the payload of TopicObjectSelected.
type ObjectSelected struct {
	Kind  object.Kind  `json:"kind"`
	Props object.Props `json:"props"`
}

// ObjectDeselected is the payload of TopicObjectDeselected.
type ObjectDeselected struct {
	ID   string      `json:"id"`
	Kind object.Kind `json:"kind"`
}

// ObjectDeleted is the payload of TopicObjectDeleted.
type ObjectDeleted struct {
	ID   string      `json:"id"`
	Kind object.Kind `json:"kind"`
}

// ObjectPropertiesChanged is the payload of TopicObjectPropertiesChanged.
type ObjectPropertiesChanged struct {
	Props object.Props `json:"props"`
}
