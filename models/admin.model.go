package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a shop operator account. The shop is single-tenant, so these are
// seeded directly into the admins collection; there is no self-registration.
type Admin struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
}
