package model

import "time"

// Model is a trained model artifact owned by a project. As with Task, only
// the fields this service touches are modeled here.
type Model struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Company    string    `json:"company" bson:"company"`
	Project    string    `json:"project,omitempty" bson:"project,omitempty"`
	User       string    `json:"user" bson:"user"`
	URI        string    `json:"uri,omitempty" bson:"uri,omitempty"`
	Framework  string    `json:"framework,omitempty" bson:"framework,omitempty"`
	Tags       []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	SystemTags []string  `json:"system_tags,omitempty" bson:"system_tags,omitempty"`
	Created    time.Time `json:"created" bson:"created"`
}
