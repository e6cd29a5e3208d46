// Package events defines the editor's event topics and payload types.
//
// Each topic has a matching wire name used by the host bridge, for example
// TopicObjectSelected is sent to the host as "objectSelected".
package events
